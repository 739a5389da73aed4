package catalog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureJSON = `{
  "stores": [
    {"id": "s1", "name": "North", "active": true},
    {"id": "s2", "name": "South", "active": false},
    {"id": "s3", "name": "East", "active": true}
  ],
  "referenceItems": [
    {"id": "milk", "name": "Milk", "active": true, "availability": {"availableInAllStores": true}},
    {"id": "rice", "name": "Rice", "active": true, "availability": {"availableInAllStores": false, "specificStoreIds": ["s3"]}}
  ],
  "storeItems": [
    {"id": "si-1", "storeId": "s1", "referenceItemId": "milk", "name": "Milk 1L", "discountPrice": 1.5, "originalPrice": null},
    {"id": "si-2", "storeId": "s3", "referenceItemId": "rice", "name": "Rice 1kg", "discountPrice": null, "originalPrice": 3}
  ]
}`

func loadTestMemory(t *testing.T) *Memory {
	t.Helper()
	f, err := LoadFixture(strings.NewReader(fixtureJSON))
	require.NoError(t, err)
	return NewMemoryFromFixture(f)
}

func TestMemoryReads(t *testing.T) {
	ctx := context.Background()
	m := loadTestMemory(t)

	stores, err := m.FindActiveStores(ctx)
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, "s1", stores[0].ID)
	assert.Equal(t, "s3", stores[1].ID)

	items, err := m.FindReferenceItemsByIDs(ctx, []string{"rice", "unknown", "milk"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "milk", items[0].ID, "catalog order, not request order")
	assert.True(t, items[0].Availability.Everywhere())
	assert.True(t, items[1].Availability.Includes("s3"))

	listings, err := m.FindStoreItems(ctx, "milk", "s1")
	require.NoError(t, err)
	require.Len(t, listings, 1)
	v, ok := listings[0].DiscountPrice.Get()
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)
	assert.False(t, listings[0].OriginalPrice.IsSet())

	none, err := m.FindStoreItems(ctx, "milk", "s3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryRecordPrice(t *testing.T) {
	ctx := context.Background()
	m := loadTestMemory(t)

	t1 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	require.NoError(t, m.RecordPrice(ctx, StorePrice{ID: "p1", StoreItemID: "si-1", Price: 1.2, Currency: "JOD", Timestamp: t1}))
	require.NoError(t, m.RecordPrice(ctx, StorePrice{ID: "p2", StoreItemID: "si-1", Price: 1.1, OriginalPrice: SomeAmount(1.5), Currency: "JOD", IsPromotion: true, Timestamp: t2}))

	si, err := m.GetStoreItem(ctx, "si-1")
	require.NoError(t, err)
	price, _ := si.DiscountPrice.Get()
	assert.Equal(t, 1.1, price)
	assert.True(t, si.IsPromotion)
	require.NotNil(t, si.LastPriceUpdate)
	assert.Equal(t, t2, *si.LastPriceUpdate)

	history, err := m.PriceHistory(ctx, "si-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "p2", history[0].ID, "newest first")

	assert.ErrorIs(t, m.RecordPrice(ctx, StorePrice{StoreItemID: "missing"}), ErrNotFound)
	_, err = m.GetStoreItem(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryBrowse(t *testing.T) {
	ctx := context.Background()
	m := loadTestMemory(t)
	m.AddReferenceItem(ReferenceItem{ID: "labneh", Name: "Labneh", CategoryID: "dairy", Active: false})
	m.AddReferenceItem(ReferenceItem{ID: "laban", Name: "Laban Drink", CategoryID: "dairy", Active: true})

	all, err := m.ListStores(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	active, err := m.ListStores(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	s, err := m.GetStore(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, "South", s.Name)
	_, err = m.GetStore(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := m.ListReferenceItems(ctx, ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, []string{"laban", "labneh", "milk", "rice"},
		[]string{items[0].ID, items[1].ID, items[2].ID, items[3].ID}, "ordered by name")

	dairy, err := m.ListReferenceItems(ctx, ItemFilter{CategoryID: "dairy", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, dairy, 1)
	assert.Equal(t, "laban", dairy[0].ID)

	found, err := m.ListReferenceItems(ctx, ItemFilter{Query: "LAB"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	item, err := m.GetReferenceItem(ctx, "rice")
	require.NoError(t, err)
	assert.Equal(t, "Rice", item.Name)
	_, err = m.GetReferenceItem(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	byStore, err := m.ListStoreItems(ctx, StoreItemFilter{StoreID: "s3"})
	require.NoError(t, err)
	require.Len(t, byStore, 1)
	assert.Equal(t, "si-2", byStore[0].ID)

	byItem, err := m.ListStoreItems(ctx, StoreItemFilter{ReferenceItemID: "milk"})
	require.NoError(t, err)
	require.Len(t, byItem, 1)
	assert.Equal(t, "si-1", byItem[0].ID)

	everything, err := m.ListStoreItems(ctx, StoreItemFilter{})
	require.NoError(t, err)
	assert.Len(t, everything, 2)
}

func TestDiscountPercentage(t *testing.T) {
	si := StoreItem{DiscountPrice: SomeAmount(1.5), OriginalPrice: SomeAmount(2)}
	require.NotNil(t, si.DiscountPercentage())
	assert.InDelta(t, 25.0, *si.DiscountPercentage(), 1e-9)

	assert.Nil(t, StoreItem{DiscountPrice: SomeAmount(1.5)}.DiscountPercentage())
	assert.Nil(t, StoreItem{DiscountPrice: SomeAmount(0), OriginalPrice: SomeAmount(2)}.DiscountPercentage())
}
