package comparison

// BasketItemInfo echoes a resolved basket entry.
type BasketItemInfo struct {
	ReferenceItemID string `json:"referenceItemId"`
	Name            string `json:"name"`
	Category        string `json:"category"`
}

// StoreItemPriceInfo is the outcome for one basket item at one store.
// StoreItemID, StoreItemName and Brand are nil when the store has no listing.
type StoreItemPriceInfo struct {
	ReferenceItemID   string  `json:"referenceItemId"`
	ReferenceItemName string  `json:"referenceItemName"`
	StoreItemID       *string `json:"storeItemId"`
	StoreItemName     *string `json:"storeItemName"`
	Brand             *string `json:"brand"`
	Price             float64 `json:"price"`
	Currency          string  `json:"currency"`
	IsPromotion       bool    `json:"isPromotion"`
	Available         bool    `json:"available"`
}

// StoreComparisonResult is the outcome of pricing the whole basket at one store.
type StoreComparisonResult struct {
	StoreID            string                `json:"storeId"`
	StoreName          string                `json:"storeName"`
	StoreLogoURL       string                `json:"storeLogoUrl"`
	TotalPrice         float64               `json:"totalPrice"`
	Currency           string                `json:"currency"`
	AllItemsAvailable  bool                  `json:"allItemsAvailable"`
	ItemPrices         []*StoreItemPriceInfo `json:"itemPrices"`   // basket order
	MissingItems       []string              `json:"missingItems"` // reference item names
	AvailableItemCount int                   `json:"availableItemCount"`
	TotalItemCount     int                   `json:"totalItemCount"`
}

// BasketComparisonResponse is the ranked comparison across all active stores.
// Aggregates only consider stores that carry the whole basket.
type BasketComparisonResponse struct {
	BasketItems       []BasketItemInfo         `json:"basketItems"`
	StoreComparisons  []*StoreComparisonResult `json:"storeComparisons"`
	CheapestStoreID   *string                  `json:"cheapestStoreId"`
	CheapestStoreName *string                  `json:"cheapestStoreName"`
	LowestTotal       float64                  `json:"lowestTotal"`
	HighestTotal      float64                  `json:"highestTotal"`
	PotentialSavings  float64                  `json:"potentialSavings"`
}
