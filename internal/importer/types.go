package importer

import "github.com/smartbasket/basket-service/internal/pricing"

// Column headers recognised in a price sheet. Matching is case-insensitive.
const (
	ColumnStoreItemID   = "store_item_id"
	ColumnPrice         = "price"
	ColumnOriginalPrice = "original_price"
	ColumnCurrency      = "currency"
	ColumnIsPromotion   = "is_promotion"
)

// Options configures the sheet parser.
type Options struct {
	// Sheet is the sheet name to read. Empty selects the first sheet.
	Sheet string
	// SkipEmptyRows drops rows whose cells are all blank.
	SkipEmptyRows bool
}

// DefaultOptions returns the default parser options.
func DefaultOptions() Options {
	return Options{SkipEmptyRows: true}
}

// RowError describes a row that could not be turned into an update.
type RowError struct {
	RowNumber int    `json:"rowNumber"`
	Column    string `json:"column,omitempty"`
	Message   string `json:"message"`
}

// Result is the outcome of parsing a price sheet.
type Result struct {
	Sheet     string                `json:"sheet"`
	Updates   []pricing.PriceUpdate `json:"updates"`
	Errors    []RowError            `json:"errors"`
	TotalRows int                   `json:"totalRows"`
	ValidRows int                   `json:"validRows"`
}

type columnIndices struct {
	storeItemID   int
	price         int
	originalPrice int
	currency      int
	isPromotion   int
}
