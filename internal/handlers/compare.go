package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/smartbasket/basket-service/internal/comparison"
)

// CompareRequest is the basket comparison request body.
type CompareRequest struct {
	ReferenceItemIDs []string `json:"referenceItemIds" binding:"required,min=1,dive,required" jsonschema:"required"`
}

// Global comparison dependencies (initialized by the application)
var (
	basketComparer comparison.Comparer
	maxBasketItems = comparison.DefaultConfig().MaxBasketItems
)

// InitComparison sets the comparer used by CompareBasket.
// This should be called during application startup
func InitComparison(comparer comparison.Comparer, config *comparison.Config) {
	basketComparer = comparer
	if config != nil {
		maxBasketItems = config.MaxBasketItems
	}
}

// CompareBasket prices a basket at every active store
// @Summary Compare basket across stores
// @Description Prices the basket at every active store and ranks stores by missing items, then total price
// @Tags basket
// @Accept json
// @Produce json
// @Param request body CompareRequest true "Reference item ids"
// @Success 200 {object} comparison.BasketComparisonResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Failure 503 {object} map[string]string "Comparison not initialized"
// @Router /basket/compare [post]
func CompareBasket(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.ReferenceItemIDs) > maxBasketItems {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("basket exceeds %d items", maxBasketItems),
		})
		return
	}

	if basketComparer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Comparison not initialized"})
		return
	}

	resp, err := basketComparer.CompareBasket(c.Request.Context(), req.ReferenceItemIDs)
	if err != nil {
		log.Error().Err(err).Int("basket_size", len(req.ReferenceItemIDs)).Msg("Basket comparison failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compare basket"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
