package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process catalog. It serves fixtures for the CLI and tests.
type Memory struct {
	mu         sync.RWMutex
	items      []ReferenceItem
	stores     []Store
	storeItems []StoreItem
	history    map[string][]StorePrice
}

// Fixture is the on-disk JSON layout accepted by LoadFixture.
type Fixture struct {
	Stores         []Store         `json:"stores"`
	ReferenceItems []ReferenceItem `json:"referenceItems"`
	StoreItems     []StoreItem     `json:"storeItems"`
}

// NewMemory creates an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{history: make(map[string][]StorePrice)}
}

// NewMemoryFromFixture creates an in-memory catalog populated from f.
func NewMemoryFromFixture(f Fixture) *Memory {
	m := NewMemory()
	m.stores = append(m.stores, f.Stores...)
	m.items = append(m.items, f.ReferenceItems...)
	m.storeItems = append(m.storeItems, f.StoreItems...)
	return m
}

// LoadFixture decodes a JSON fixture.
func LoadFixture(r io.Reader) (Fixture, error) {
	var f Fixture
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return Fixture{}, fmt.Errorf("failed to decode catalog fixture: %w", err)
	}
	return f, nil
}

// LoadFixtureFile opens path and decodes it as a fixture.
func LoadFixtureFile(path string) (Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("failed to open catalog fixture: %w", err)
	}
	defer file.Close()
	return LoadFixture(file)
}

// AddStore appends a store.
func (m *Memory) AddStore(s Store) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores = append(m.stores, s)
}

// AddReferenceItem appends a reference item.
func (m *Memory) AddReferenceItem(item ReferenceItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, item)
}

// AddStoreItem appends a store listing.
func (m *Memory) AddStoreItem(si StoreItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeItems = append(m.storeItems, si)
}

// FindReferenceItemsByIDs returns matching items in catalog order, not request order.
func (m *Memory) FindReferenceItemsByIDs(_ context.Context, ids []string) ([]ReferenceItem, error) {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ReferenceItem, 0, len(wanted))
	for _, item := range m.items {
		if _, ok := wanted[item.ID]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

// FindActiveStores returns active stores in insertion order.
func (m *Memory) FindActiveStores(_ context.Context) ([]Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Store, 0, len(m.stores))
	for _, s := range m.stores {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

// FindStoreItems returns listings for the pair in insertion order.
func (m *Memory) FindStoreItems(_ context.Context, referenceItemID, storeID string) ([]StoreItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []StoreItem
	for _, si := range m.storeItems {
		if si.ReferenceItemID == referenceItemID && si.StoreID == storeID {
			out = append(out, si)
		}
	}
	return out, nil
}

// GetStoreItem returns the listing with the given id.
func (m *Memory) GetStoreItem(_ context.Context, id string) (StoreItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, si := range m.storeItems {
		if si.ID == id {
			return si, nil
		}
	}
	return StoreItem{}, ErrNotFound
}

// RecordPrice appends to the history and updates the listing snapshot.
func (m *Memory) RecordPrice(_ context.Context, p StorePrice) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.storeItems {
		si := &m.storeItems[i]
		if si.ID != p.StoreItemID {
			continue
		}
		ts := p.Timestamp
		si.DiscountPrice = SomeAmount(p.Price)
		si.OriginalPrice = p.OriginalPrice
		si.Currency = p.Currency
		si.IsPromotion = p.IsPromotion
		si.LastPriceUpdate = &ts
		m.history[p.StoreItemID] = append(m.history[p.StoreItemID], p)
		return nil
	}
	return ErrNotFound
}

// PriceHistory returns the history of a listing, newest first.
func (m *Memory) PriceHistory(_ context.Context, storeItemID string) ([]StorePrice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.history[storeItemID]
	out := make([]StorePrice, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// ListStores returns stores in insertion order.
func (m *Memory) ListStores(_ context.Context, activeOnly bool) ([]Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Store, 0, len(m.stores))
	for _, s := range m.stores {
		if activeOnly && !s.Active {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// GetStore returns the store with the given id.
func (m *Memory) GetStore(_ context.Context, id string) (Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.stores {
		if s.ID == id {
			return s, nil
		}
	}
	return Store{}, ErrNotFound
}

// ListReferenceItems returns matching items ordered by name, then id.
func (m *Memory) ListReferenceItems(_ context.Context, filter ItemFilter) ([]ReferenceItem, error) {
	query := strings.ToLower(filter.Query)

	m.mu.RLock()
	out := make([]ReferenceItem, 0, len(m.items))
	for _, item := range m.items {
		if filter.ActiveOnly && !item.Active {
			continue
		}
		if filter.CategoryID != "" && item.CategoryID != filter.CategoryID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(item.Name), query) {
			continue
		}
		out = append(out, item)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetReferenceItem returns the reference item with the given id.
func (m *Memory) GetReferenceItem(_ context.Context, id string) (ReferenceItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, item := range m.items {
		if item.ID == id {
			return item, nil
		}
	}
	return ReferenceItem{}, ErrNotFound
}

// ListStoreItems returns matching listings ordered by id.
func (m *Memory) ListStoreItems(_ context.Context, filter StoreItemFilter) ([]StoreItem, error) {
	m.mu.RLock()
	out := make([]StoreItem, 0)
	for _, si := range m.storeItems {
		if filter.ReferenceItemID != "" && si.ReferenceItemID != filter.ReferenceItemID {
			continue
		}
		if filter.StoreID != "" && si.StoreID != filter.StoreID {
			continue
		}
		out = append(out, si)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
