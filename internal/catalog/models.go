package catalog

import (
	"time"
)

// ReferenceItem is the canonical product a shopper puts in a basket.
type ReferenceItem struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	CategoryID   string       `json:"categoryId,omitempty"`
	Category     string       `json:"category,omitempty"` // denormalized category name
	Active       bool         `json:"active"`
	Availability Availability `json:"availability"`
}

// Store is a shop whose listings take part in comparisons.
type Store struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	LogoURL  string `json:"logoUrl,omitempty"`
	Active   bool   `json:"active"`
}

// StoreItem is a store's listing of a reference item with a cached price snapshot.
type StoreItem struct {
	ID              string     `json:"id"`
	StoreID         string     `json:"storeId"`
	ReferenceItemID string     `json:"referenceItemId"`
	Name            string     `json:"name"`
	Brand           string     `json:"brand,omitempty"`
	Barcode         string     `json:"barcode,omitempty"`
	DiscountPrice   Amount     `json:"discountPrice"`
	OriginalPrice   Amount     `json:"originalPrice"`
	Currency        string     `json:"currency,omitempty"`
	IsPromotion     bool       `json:"isPromotion"`
	LastPriceUpdate *time.Time `json:"lastPriceUpdate,omitempty"`
}

// StorePrice is one entry of a store item's price history.
type StorePrice struct {
	ID            string    `json:"id"`
	StoreItemID   string    `json:"storeItemId"`
	Price         float64   `json:"price"`
	OriginalPrice Amount    `json:"originalPrice"`
	Currency      string    `json:"currency"`
	IsPromotion   bool      `json:"isPromotion"`
	Timestamp     time.Time `json:"timestamp"`
}

// DiscountPercentage returns how much cheaper the discount price is than the
// original price, in percent. Nil unless both prices are usable.
func (si StoreItem) DiscountPercentage() *float64 {
	if !si.DiscountPrice.Usable() || !si.OriginalPrice.Usable() {
		return nil
	}
	discount, _ := si.DiscountPrice.Get()
	original, _ := si.OriginalPrice.Get()
	pct := (original - discount) / original * 100
	return &pct
}
