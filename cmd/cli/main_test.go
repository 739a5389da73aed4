package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbasket/basket-service/internal/comparison"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		compareOutput = "table"
		catalogFile = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCompareCommandJSON(t *testing.T) {
	out, err := runCLI(t, "compare", "milk", "bread", "labneh",
		"--catalog-file", "testdata/catalog.json", "--output", "json")
	require.NoError(t, err)

	var resp comparison.BasketComparisonResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	require.Len(t, resp.StoreComparisons, 3)
	assert.Equal(t, "s-carrefour", resp.StoreComparisons[0].StoreID)
	assert.Equal(t, "s-cozmo", resp.StoreComparisons[1].StoreID)
	assert.Equal(t, "s-safeway", resp.StoreComparisons[2].StoreID)
	assert.Equal(t, []string{"Arabic Bread"}, resp.StoreComparisons[2].MissingItems)

	require.NotNil(t, resp.CheapestStoreID)
	assert.Equal(t, "s-carrefour", *resp.CheapestStoreID)
	assert.InDelta(t, 3.15, resp.LowestTotal, 1e-9)
	assert.InDelta(t, 3.2, resp.HighestTotal, 1e-9)
	assert.InDelta(t, 0.05, resp.PotentialSavings, 1e-9)
}

func TestCompareCommandTable(t *testing.T) {
	out, err := runCLI(t, "compare", "labneh", "--catalog-file", "testdata/catalog.json")
	require.NoError(t, err)

	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "Safeway Shmeisani")
	assert.Contains(t, out, "Cheapest complete basket: Safeway Shmeisani (1.20)")
}

func TestImportRequiresFile(t *testing.T) {
	_, err := runCLI(t, "import-prices")
	assert.Error(t, err)
}
