package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/smartbasket/basket-service/internal/catalog"
)

// StoreListQuery filters GET /stores.
type StoreListQuery struct {
	Active bool `form:"active"`
}

// ReferenceItemQuery filters GET /reference-items.
type ReferenceItemQuery struct {
	Category string `form:"category"`
	Query    string `form:"q" binding:"max=100"`
	Active   bool   `form:"active"`
}

// StoreItemQuery filters GET /store-items.
type StoreItemQuery struct {
	ReferenceItemID string `form:"referenceItemId"`
	StoreID         string `form:"storeId"`
}

// StoreListResponse lists stores.
type StoreListResponse struct {
	Stores []catalog.Store `json:"stores"`
	Total  int             `json:"total"`
}

// ReferenceItemListResponse lists reference items.
type ReferenceItemListResponse struct {
	Items []catalog.ReferenceItem `json:"items"`
	Total int                     `json:"total"`
}

// StoreItemView is a store listing with its discount relative to the original price.
type StoreItemView struct {
	catalog.StoreItem
	DiscountPercentage *float64 `json:"discountPercentage"`
}

// StoreItemListResponse lists store listings.
type StoreItemListResponse struct {
	Items []StoreItemView `json:"items"`
	Total int             `json:"total"`
}

var catalogBrowser catalog.Browser

// InitCatalog sets the catalog served by the browse endpoints.
func InitCatalog(browser catalog.Browser) {
	catalogBrowser = browser
}

// ListStores lists stores
// @Summary List stores
// @Description Returns stores in creation order; active=true keeps only active stores
// @Tags catalog
// @Produce json
// @Param active query bool false "Only active stores"
// @Success 200 {object} StoreListResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Router /stores [get]
func ListStores(c *gin.Context) {
	if !catalogReady(c) {
		return
	}

	var q StoreListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stores, err := catalogBrowser.ListStores(c.Request.Context(), q.Active)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, StoreListResponse{Stores: stores, Total: len(stores)})
}

// GetStore returns a single store
// @Summary Get store
// @Tags catalog
// @Produce json
// @Param id path string true "Store ID"
// @Success 200 {object} catalog.Store
// @Failure 404 {object} map[string]string "Store not found"
// @Router /stores/{id} [get]
func GetStore(c *gin.Context) {
	if !catalogReady(c) {
		return
	}

	store, err := catalogBrowser.GetStore(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, store)
}

// ListReferenceItems lists reference items
// @Summary List reference items
// @Description Returns reference items ordered by name, optionally filtered by category and a case-insensitive name search
// @Tags catalog
// @Produce json
// @Param category query string false "Category ID"
// @Param q query string false "Name contains"
// @Param active query bool false "Only active items"
// @Success 200 {object} ReferenceItemListResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Router /reference-items [get]
func ListReferenceItems(c *gin.Context) {
	if !catalogReady(c) {
		return
	}

	var q ReferenceItemQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := catalogBrowser.ListReferenceItems(c.Request.Context(), catalog.ItemFilter{
		CategoryID: q.Category,
		Query:      q.Query,
		ActiveOnly: q.Active,
	})
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, ReferenceItemListResponse{Items: items, Total: len(items)})
}

// GetReferenceItem returns a single reference item
// @Summary Get reference item
// @Tags catalog
// @Produce json
// @Param id path string true "Reference item ID"
// @Success 200 {object} catalog.ReferenceItem
// @Failure 404 {object} map[string]string "Reference item not found"
// @Router /reference-items/{id} [get]
func GetReferenceItem(c *gin.Context) {
	if !catalogReady(c) {
		return
	}

	item, err := catalogBrowser.GetReferenceItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ListStoreItems lists store listings
// @Summary List store items
// @Description Returns store listings ordered by id, filtered by reference item and/or store
// @Tags catalog
// @Produce json
// @Param referenceItemId query string false "Reference item ID"
// @Param storeId query string false "Store ID"
// @Success 200 {object} StoreItemListResponse
// @Router /store-items [get]
func ListStoreItems(c *gin.Context) {
	if !catalogReady(c) {
		return
	}

	var q StoreItemQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listings, err := catalogBrowser.ListStoreItems(c.Request.Context(), catalog.StoreItemFilter{
		ReferenceItemID: q.ReferenceItemID,
		StoreID:         q.StoreID,
	})
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	views := make([]StoreItemView, 0, len(listings))
	for _, si := range listings {
		views = append(views, StoreItemView{StoreItem: si, DiscountPercentage: si.DiscountPercentage()})
	}
	c.JSON(http.StatusOK, StoreItemListResponse{Items: views, Total: len(views)})
}

func catalogReady(c *gin.Context) bool {
	if catalogBrowser == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog not initialized"})
		return false
	}
	return true
}

func respondCatalogError(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("Catalog request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
