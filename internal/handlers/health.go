package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/smartbasket/basket-service/internal/database"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

var cacheClient *redis.Client

// InitHealth registers the Redis client checked by HealthCheck. nil means
// caching is disabled.
func InitHealth(client *redis.Client) {
	cacheClient = client
}

// HealthCheck handles the health check endpoint
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status: "ok",
	}
	status := http.StatusOK

	// Check database connection
	if database.Pool() != nil {
		if err := database.Status(c.Request.Context()); err != nil {
			response.Database = "disconnected"
			status = http.StatusServiceUnavailable
		} else {
			response.Database = "connected"
		}
	} else {
		response.Database = "not configured"
	}

	// The cache is optional; a broken one degrades but does not fail the check.
	if cacheClient != nil {
		if err := cacheClient.Ping(c.Request.Context()).Err(); err != nil {
			response.Cache = "disconnected"
			response.Status = "degraded"
		} else {
			response.Cache = "connected"
		}
	} else {
		response.Cache = "disabled"
	}

	if status != http.StatusOK {
		response.Status = "unavailable"
	}
	c.JSON(status, response)
}
