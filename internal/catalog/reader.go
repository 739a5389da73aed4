package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested catalog record does not exist.
var ErrNotFound = errors.New("catalog: not found")

// Reader is the read-only view of the catalog used by basket comparison.
// Implementations must be safe for concurrent use.
type Reader interface {
	// FindReferenceItemsByIDs returns the items matching ids. Unknown ids are
	// skipped and the result order is unspecified.
	FindReferenceItemsByIDs(ctx context.Context, ids []string) ([]ReferenceItem, error)

	// FindActiveStores returns all active stores in a stable order.
	FindActiveStores(ctx context.Context) ([]Store, error)

	// FindStoreItems returns the listings of a reference item at a store.
	FindStoreItems(ctx context.Context, referenceItemID, storeID string) ([]StoreItem, error)
}

// PriceWriter persists price updates.
type PriceWriter interface {
	// GetStoreItem returns ErrNotFound when the listing does not exist.
	GetStoreItem(ctx context.Context, id string) (StoreItem, error)

	// RecordPrice appends a history entry and refreshes the listing's
	// cached price snapshot in one step.
	RecordPrice(ctx context.Context, price StorePrice) error

	// PriceHistory returns the history of a listing, newest first.
	PriceHistory(ctx context.Context, storeItemID string) ([]StorePrice, error)
}

// ItemFilter narrows ListReferenceItems. Zero fields match everything.
type ItemFilter struct {
	CategoryID string
	Query      string // case-insensitive substring of the name
	ActiveOnly bool
}

// StoreItemFilter narrows ListStoreItems. Zero fields match everything.
type StoreItemFilter struct {
	ReferenceItemID string
	StoreID         string
}

// Browser lists catalog records so clients can discover the ids they compare.
type Browser interface {
	// ListStores returns stores in creation order.
	ListStores(ctx context.Context, activeOnly bool) ([]Store, error)

	// GetStore returns ErrNotFound when the store does not exist.
	GetStore(ctx context.Context, id string) (Store, error)

	// ListReferenceItems returns matching items ordered by name, then id.
	ListReferenceItems(ctx context.Context, filter ItemFilter) ([]ReferenceItem, error)

	// GetReferenceItem returns ErrNotFound when the item does not exist.
	GetReferenceItem(ctx context.Context, id string) (ReferenceItem, error)

	// ListStoreItems returns matching listings ordered by id.
	ListStoreItems(ctx context.Context, filter StoreItemFilter) ([]StoreItem, error)
}
