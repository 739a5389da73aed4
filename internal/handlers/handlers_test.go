package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbasket/basket-service/internal/catalog"
	"github.com/smartbasket/basket-service/internal/comparison"
	"github.com/smartbasket/basket-service/internal/pricing"
)

func testCatalog() *catalog.Memory {
	mem := catalog.NewMemory()
	mem.AddStore(catalog.Store{ID: "S1", Name: "Store One", Active: true})
	mem.AddStore(catalog.Store{ID: "S2", Name: "Store Two", Active: true})
	mem.AddReferenceItem(catalog.ReferenceItem{
		ID: "itemA", Name: "Item A", Active: true, Availability: catalog.AvailableEverywhere(),
	})
	mem.AddStoreItem(catalog.StoreItem{
		ID: "si-1", StoreID: "S1", ReferenceItemID: "itemA", Name: "A @ S1", DiscountPrice: catalog.SomeAmount(2.0),
	})
	return mem
}

func setupRouter(t *testing.T, mem *catalog.Memory) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := comparison.DefaultConfig()
	cfg.MaxBasketItems = 3
	InitComparison(comparison.NewComparator(mem, cfg, nil), cfg)
	InitPricing(pricing.NewService(mem, nil, cfg.DefaultCurrency))
	t.Cleanup(func() {
		InitComparison(nil, comparison.DefaultConfig())
		InitPricing(nil)
	})

	router := gin.New()
	router.POST("/basket/compare", CompareBasket)
	router.POST("/admin/prices", UpdatePrice)
	router.POST("/admin/prices/batch", BatchUpdatePrices)
	router.GET("/prices/history/:storeItemId", GetPriceHistory)
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCompareBasketHappyPath(t *testing.T) {
	router := setupRouter(t, testCatalog())

	w := doJSON(t, router, http.MethodPost, "/basket/compare", CompareRequest{ReferenceItemIDs: []string{"itemA"}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp comparison.BasketComparisonResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.StoreComparisons, 2)
	assert.Equal(t, "S1", resp.StoreComparisons[0].StoreID)
	assert.Equal(t, []string{"Item A"}, resp.StoreComparisons[1].MissingItems)
	require.NotNil(t, resp.CheapestStoreID)
	assert.Equal(t, "S1", *resp.CheapestStoreID)
	assert.Equal(t, 2.0, resp.LowestTotal)
}

func TestCompareBasketResponseShape(t *testing.T) {
	router := setupRouter(t, testCatalog())

	w := doJSON(t, router, http.MethodPost, "/basket/compare", CompareRequest{ReferenceItemIDs: []string{"ghost"}})
	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, []any{}, raw["basketItems"])
	// Every store trivially carries an empty basket.
	assert.Equal(t, "S1", raw["cheapestStoreId"])
	assert.Equal(t, 0.0, raw["lowestTotal"])
	assert.Contains(t, raw, "potentialSavings")

	stores := raw["storeComparisons"].([]any)
	first := stores[0].(map[string]any)
	for _, key := range []string{"storeId", "storeName", "storeLogoUrl", "totalPrice", "currency",
		"allItemsAvailable", "itemPrices", "missingItems", "availableItemCount", "totalItemCount"} {
		assert.Contains(t, first, key)
	}
	assert.Equal(t, "JOD", first["currency"])
}

func TestCompareBasketValidation(t *testing.T) {
	router := setupRouter(t, testCatalog())

	tests := []struct {
		name string
		body any
	}{
		{"missing ids", map[string]any{}},
		{"empty ids", CompareRequest{ReferenceItemIDs: []string{}}},
		{"blank id", CompareRequest{ReferenceItemIDs: []string{"itemA", ""}}},
		{"too many", CompareRequest{ReferenceItemIDs: []string{"a", "b", "c", "d"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/basket/compare", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

type failingComparer struct{}

func (failingComparer) CompareBasket(context.Context, []string) (*comparison.BasketComparisonResponse, error) {
	return nil, errors.New("storage unavailable")
}

func TestCompareBasketFailure(t *testing.T) {
	router := setupRouter(t, testCatalog())
	InitComparison(failingComparer{}, nil)

	w := doJSON(t, router, http.MethodPost, "/basket/compare", CompareRequest{ReferenceItemIDs: []string{"itemA"}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "storage unavailable")
}

func TestUpdatePriceEndpoint(t *testing.T) {
	mem := testCatalog()
	router := setupRouter(t, mem)

	price := 1.5
	w := doJSON(t, router, http.MethodPost, "/admin/prices", pricing.PriceUpdate{StoreItemID: "si-1", Price: &price})
	require.Equal(t, http.StatusCreated, w.Code)

	var recorded catalog.StorePrice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recorded))
	assert.Equal(t, 1.5, recorded.Price)
	assert.Equal(t, "JOD", recorded.Currency)

	// The comparison sees the new price.
	w = doJSON(t, router, http.MethodPost, "/basket/compare", CompareRequest{ReferenceItemIDs: []string{"itemA"}})
	require.Equal(t, http.StatusOK, w.Code)
	var resp comparison.BasketComparisonResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1.5, resp.LowestTotal)
}

func TestUpdatePriceErrors(t *testing.T) {
	router := setupRouter(t, testCatalog())
	negative, one := -1.0, 1.0

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"missing price", map[string]any{"storeItemId": "si-1"}, http.StatusBadRequest},
		{"negative price", pricing.PriceUpdate{StoreItemID: "si-1", Price: &negative}, http.StatusBadRequest},
		{"bad currency", pricing.PriceUpdate{StoreItemID: "si-1", Price: &one, Currency: "XX"}, http.StatusBadRequest},
		{"unknown item", pricing.PriceUpdate{StoreItemID: "ghost", Price: &one}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/admin/prices", tt.body)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestBatchAndHistoryEndpoints(t *testing.T) {
	router := setupRouter(t, testCatalog())
	one, two := 1.0, 2.0

	w := doJSON(t, router, http.MethodPost, "/admin/prices/batch", BatchPriceRequest{Updates: []pricing.PriceUpdate{
		{StoreItemID: "si-1", Price: &one},
		{StoreItemID: "ghost", Price: &two},
		{StoreItemID: "si-1"},
	}})
	require.Equal(t, http.StatusOK, w.Code)

	var result pricing.BatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 2, result.FailureCount)

	w = doJSON(t, router, http.MethodGet, "/prices/history/si-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history PriceHistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Equal(t, 1, history.Total)
	assert.Equal(t, 1.0, history.Prices[0].Price)

	w = doJSON(t, router, http.MethodGet, "/prices/history/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/admin/prices/batch", BatchPriceRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheckWithoutDependencies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	InitHealth(nil)
	router := gin.New()
	router.GET("/health", HealthCheck)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "not configured", resp.Database)
	assert.Equal(t, "disabled", resp.Cache)
}
