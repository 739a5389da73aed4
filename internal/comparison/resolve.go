package comparison

import (
	"github.com/smartbasket/basket-service/internal/catalog"
)

// IsAvailable reports whether the reference item is assigned to the store.
// Items available everywhere match any store; otherwise the store must be on
// the item's allow-list.
func IsAvailable(item catalog.ReferenceItem, storeID string) bool {
	return item.Availability.Includes(storeID)
}

// EffectivePrice returns the price to charge for a listing. The discount
// price wins when strictly positive, then the original price when strictly
// positive. Zero and negative values mean "not set".
func EffectivePrice(si catalog.StoreItem) (float64, bool) {
	if si.DiscountPrice.Usable() {
		v, _ := si.DiscountPrice.Get()
		return v, true
	}
	if si.OriginalPrice.Usable() {
		v, _ := si.OriginalPrice.Get()
		return v, true
	}
	return 0, false
}

// selectListing picks the listing with the lowest ID so that duplicate
// listings for the same store resolve the same way regardless of lookup order.
func selectListing(listings []catalog.StoreItem) (catalog.StoreItem, bool) {
	if len(listings) == 0 {
		return catalog.StoreItem{}, false
	}
	best := listings[0]
	for _, si := range listings[1:] {
		if si.ID < best.ID {
			best = si
		}
	}
	return best, true
}
