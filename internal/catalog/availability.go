package catalog

import (
	"encoding/json"
	"sort"
)

// Availability describes which stores offer a reference item. It is either
// "everywhere" or an explicit allow-list of store IDs; the allow-list of an
// everywhere value is always empty.
type Availability struct {
	everywhere bool
	stores     map[string]struct{}
}

// AvailableEverywhere returns an availability matching every store.
func AvailableEverywhere() Availability {
	return Availability{everywhere: true}
}

// AvailableAt returns an availability restricted to the given stores.
// With no IDs the item is offered nowhere.
func AvailableAt(storeIDs ...string) Availability {
	stores := make(map[string]struct{}, len(storeIDs))
	for _, id := range storeIDs {
		stores[id] = struct{}{}
	}
	return Availability{stores: stores}
}

// NewAvailability builds an availability from the legacy flag + list pair.
// When allStores is true the list is ignored.
func NewAvailability(allStores bool, storeIDs []string) Availability {
	if allStores {
		return AvailableEverywhere()
	}
	return AvailableAt(storeIDs...)
}

// Everywhere reports whether the item is offered by every store.
func (a Availability) Everywhere() bool {
	return a.everywhere
}

// Includes reports whether the store offers the item.
func (a Availability) Includes(storeID string) bool {
	if a.everywhere {
		return true
	}
	_, ok := a.stores[storeID]
	return ok
}

// StoreIDs returns the allow-list in sorted order. Empty for everywhere.
func (a Availability) StoreIDs() []string {
	ids := make([]string, 0, len(a.stores))
	if a.everywhere {
		return ids
	}
	for id := range a.stores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type availabilityJSON struct {
	AvailableInAllStores bool     `json:"availableInAllStores"`
	SpecificStoreIDs     []string `json:"specificStoreIds"`
}

// MarshalJSON uses the flag + list wire format of the catalog API.
func (a Availability) MarshalJSON() ([]byte, error) {
	return json.Marshal(availabilityJSON{
		AvailableInAllStores: a.everywhere,
		SpecificStoreIDs:     a.StoreIDs(),
	})
}

// UnmarshalJSON accepts the flag + list wire format.
func (a *Availability) UnmarshalJSON(data []byte) error {
	var raw availabilityJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = NewAvailability(raw.AvailableInAllStores, raw.SpecificStoreIDs)
	return nil
}
