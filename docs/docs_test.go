package docs

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readDoc(t *testing.T) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))
	return doc
}

func TestSwaggerInfo(t *testing.T) {
	assert.Equal(t, "Basket Service API", SwaggerInfo.Title)
	assert.Equal(t, "1.0", SwaggerInfo.Version)
	assert.Equal(t, "/", SwaggerInfo.BasePath)
	assert.Equal(t, "swagger", SwaggerInfo.InfoInstanceName)
	assert.Contains(t, SwaggerInfo.Description, "basket")
}

func TestDocRendersInfo(t *testing.T) {
	doc := readDoc(t)

	info, ok := doc["info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Basket Service API", info["title"])
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Equal(t, "/", doc["basePath"])
}

func TestDocPaths(t *testing.T) {
	paths, ok := readDoc(t)["paths"].(map[string]any)
	require.True(t, ok)

	for path, method := range map[string]string{
		"/basket/compare":               "post",
		"/admin/prices":                 "post",
		"/admin/prices/batch":           "post",
		"/prices/history/{storeItemId}": "get",
		"/stores":                       "get",
		"/stores/{id}":                  "get",
		"/reference-items":              "get",
		"/reference-items/{id}":         "get",
		"/store-items":                  "get",
		"/health":                       "get",
	} {
		ops, ok := paths[path].(map[string]any)
		if assert.True(t, ok, "missing path %s", path) {
			assert.Contains(t, ops, method, "path %s", path)
		}
	}
}

func TestDocDefinitions(t *testing.T) {
	defs, ok := readDoc(t)["definitions"].(map[string]any)
	require.True(t, ok)

	for _, name := range []string{
		"handlers.CompareRequest",
		"comparison.BasketComparisonResponse",
		"comparison.StoreComparisonResult",
		"pricing.PriceUpdate",
		"pricing.BatchResult",
		"handlers.StoreItemView",
		"handlers.StoreItemListResponse",
	} {
		assert.Contains(t, defs, name)
	}
}

func TestStoreItemViewDocumentsDiscount(t *testing.T) {
	defs, ok := readDoc(t)["definitions"].(map[string]any)
	require.True(t, ok)

	view, ok := defs["handlers.StoreItemView"].(map[string]any)
	require.True(t, ok)
	props, ok := view["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "discountPercentage")
	assert.Contains(t, props, "discountPrice")
}

func TestDocHasNoGeneratedHeader(t *testing.T) {
	src, err := os.ReadFile("docs.go")
	require.NoError(t, err)
	assert.NotContains(t, string(src), "DO NOT EDIT")
}
