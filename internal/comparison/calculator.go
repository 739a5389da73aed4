package comparison

import (
	"context"
	"fmt"

	"github.com/smartbasket/basket-service/internal/catalog"
)

// StoreTotalCalculator prices a basket at a single store.
type StoreTotalCalculator struct {
	catalog  catalog.Reader
	currency string
}

// NewStoreTotalCalculator creates a calculator that falls back to defaultCurrency.
func NewStoreTotalCalculator(reader catalog.Reader, defaultCurrency string) *StoreTotalCalculator {
	return &StoreTotalCalculator{
		catalog:  reader,
		currency: defaultCurrency,
	}
}

// Calculate computes the comparison record for one store. Items are visited
// in basket order; an item counts as missing when it is not assigned to the
// store, has no listing there, or its listing has no usable price.
func (c *StoreTotalCalculator) Calculate(ctx context.Context, store catalog.Store, basket []catalog.ReferenceItem) (*StoreComparisonResult, error) {
	result := &StoreComparisonResult{
		StoreID:      store.ID,
		StoreName:    store.Name,
		StoreLogoURL: store.LogoURL,
		Currency:     c.currency,
		ItemPrices:   make([]*StoreItemPriceInfo, 0, len(basket)),
		MissingItems: make([]string, 0),
	}

	total := 0.0
	for _, item := range basket {
		if !IsAvailable(item, store.ID) {
			result.MissingItems = append(result.MissingItems, item.Name)
			result.ItemPrices = append(result.ItemPrices, c.missing(item, nil))
			continue
		}

		listings, err := c.catalog.FindStoreItems(ctx, item.ID, store.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load listings of %s at store %s: %w", item.ID, store.ID, err)
		}

		listing, ok := selectListing(listings)
		if !ok {
			result.MissingItems = append(result.MissingItems, item.Name)
			result.ItemPrices = append(result.ItemPrices, c.missing(item, nil))
			continue
		}

		price, ok := EffectivePrice(listing)
		if !ok {
			result.MissingItems = append(result.MissingItems, item.Name)
			result.ItemPrices = append(result.ItemPrices, c.missing(item, &listing))
			continue
		}

		total += price
		currency := listing.Currency
		if currency == "" {
			currency = c.currency
		}
		result.ItemPrices = append(result.ItemPrices, &StoreItemPriceInfo{
			ReferenceItemID:   item.ID,
			ReferenceItemName: item.Name,
			StoreItemID:       strPtr(listing.ID),
			StoreItemName:     strPtr(listing.Name),
			Brand:             strPtr(listing.Brand),
			Price:             price,
			Currency:          currency,
			IsPromotion:       listing.IsPromotion,
			Available:         true,
		})
	}

	result.TotalPrice = total
	result.AllItemsAvailable = len(result.MissingItems) == 0
	result.TotalItemCount = len(basket)
	result.AvailableItemCount = len(basket) - len(result.MissingItems)

	return result, nil
}

// missing builds an unavailable entry. A listing without a usable price is
// still echoed so the shopper can see which product was considered.
func (c *StoreTotalCalculator) missing(item catalog.ReferenceItem, listing *catalog.StoreItem) *StoreItemPriceInfo {
	info := &StoreItemPriceInfo{
		ReferenceItemID:   item.ID,
		ReferenceItemName: item.Name,
		Price:             0,
		Currency:          c.currency,
		Available:         false,
	}
	if listing != nil {
		info.StoreItemID = strPtr(listing.ID)
		info.StoreItemName = strPtr(listing.Name)
		info.Brand = strPtr(listing.Brand)
	}
	return info
}

func strPtr(s string) *string {
	return &s
}
