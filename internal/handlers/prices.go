package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/smartbasket/basket-service/internal/catalog"
	"github.com/smartbasket/basket-service/internal/pricing"
)

// BatchPriceRequest is the request body for batch price updates.
type BatchPriceRequest struct {
	Updates []pricing.PriceUpdate `json:"updates" binding:"required,min=1,max=1000" jsonschema:"required"`
}

// PriceHistoryResponse lists the recorded prices of a store item.
type PriceHistoryResponse struct {
	StoreItemID string               `json:"storeItemId"`
	Prices      []catalog.StorePrice `json:"prices"`
	Total       int                  `json:"total"`
}

var priceService *pricing.Service

// InitPricing sets the price service used by the price endpoints.
func InitPricing(service *pricing.Service) {
	priceService = service
}

// UpdatePrice records a single price
// @Summary Record a price
// @Description Records a new price for a store item and refreshes its current price
// @Tags prices
// @Accept json
// @Produce json
// @Param X-Internal-API-Key header string true "Internal API key"
// @Param request body pricing.PriceUpdate true "Price update"
// @Success 201 {object} catalog.StorePrice
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Store item not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/prices [post]
func UpdatePrice(c *gin.Context) {
	if priceService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Pricing not initialized"})
		return
	}

	var req pricing.PriceUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	price, err := priceService.UpdatePrice(c.Request.Context(), req)
	if err != nil {
		respondPriceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, price)
}

// BatchUpdatePrices records many prices; failures are reported per entry
// @Summary Record prices in bulk
// @Description Records every entry independently and reports per-entry outcomes
// @Tags prices
// @Accept json
// @Produce json
// @Param X-Internal-API-Key header string true "Internal API key"
// @Param request body BatchPriceRequest true "Price updates"
// @Success 200 {object} pricing.BatchResult
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /admin/prices/batch [post]
func BatchUpdatePrices(c *gin.Context) {
	if priceService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Pricing not initialized"})
		return
	}

	var req BatchPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, priceService.BatchUpdate(c.Request.Context(), req.Updates))
}

// GetPriceHistory returns the price history of a store item
// @Summary Get price history
// @Description Returns the recorded prices of a store item, newest first
// @Tags prices
// @Produce json
// @Param storeItemId path string true "Store item ID"
// @Success 200 {object} PriceHistoryResponse
// @Failure 404 {object} map[string]string "Store item not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /prices/history/{storeItemId} [get]
func GetPriceHistory(c *gin.Context) {
	if priceService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Pricing not initialized"})
		return
	}

	storeItemID := c.Param("storeItemId")
	history, err := priceService.History(c.Request.Context(), storeItemID)
	if err != nil {
		respondPriceError(c, err)
		return
	}

	c.JSON(http.StatusOK, PriceHistoryResponse{
		StoreItemID: storeItemID,
		Prices:      history,
		Total:       len(history),
	})
}

func respondPriceError(c *gin.Context, err error) {
	var invalid pricing.ErrInvalidPrice
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error(), "field": invalid.Field})
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "store item not found"})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Price request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
