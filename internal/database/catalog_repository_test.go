package database

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/smartbasket/basket-service/internal/catalog"
	"github.com/smartbasket/basket-service/internal/comparison"
)

func setupCatalogTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping database test in short mode (requires Docker)")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err, "Failed to start postgres container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err, "Failed to create connection pool")

	require.NoError(t, Migrate(ctx, pool), "Failed to run migrations")
	// Running twice must be harmless.
	require.NoError(t, Migrate(ctx, pool))

	cleanup := func() {
		pool.Close()
		testcontainers.TerminateContainer(container)
	}
	return pool, cleanup
}

func testFixture() catalog.Fixture {
	return catalog.Fixture{
		Stores: []catalog.Store{
			{ID: "s-north", Name: "North", LogoURL: "https://logo/north", Active: true},
			{ID: "s-south", Name: "South", Active: true},
			{ID: "s-closed", Name: "Closed", Active: false},
		},
		ReferenceItems: []catalog.ReferenceItem{
			{ID: "milk", Name: "Milk", CategoryID: "dairy", Category: "Dairy", Active: true, Availability: catalog.AvailableEverywhere()},
			{ID: "bread", Name: "Bread", CategoryID: "bakery", Category: "Bakery", Active: true, Availability: catalog.AvailableAt("s-south")},
			{ID: "legacy", Name: "Legacy", Active: false, Availability: catalog.AvailableEverywhere()},
		},
		StoreItems: []catalog.StoreItem{
			{ID: "si-n-milk", StoreID: "s-north", ReferenceItemID: "milk", Name: "Milk 1L", Brand: "Farm",
				DiscountPrice: catalog.SomeAmount(1.25), OriginalPrice: catalog.SomeAmount(1.5), Currency: "JOD"},
			{ID: "si-s-milk", StoreID: "s-south", ReferenceItemID: "milk", Name: "Milk 1L",
				OriginalPrice: catalog.SomeAmount(1.75)},
			{ID: "si-s-bread", StoreID: "s-south", ReferenceItemID: "bread", Name: "Loaf",
				DiscountPrice: catalog.SomeAmount(0), OriginalPrice: catalog.SomeAmount(0.5)},
			{ID: "si-n-bread", StoreID: "s-north", ReferenceItemID: "bread", Name: "Loaf",
				OriginalPrice: catalog.SomeAmount(0.25)},
		},
	}
}

func TestCatalogRepositoryReads(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupCatalogTestDB(t)
	defer cleanup()

	repo := NewCatalogRepository(pool)
	require.NoError(t, repo.SeedFixture(ctx, testFixture()))

	stores, err := repo.FindActiveStores(ctx)
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, "s-north", stores[0].ID)
	assert.Equal(t, "s-south", stores[1].ID)
	assert.Equal(t, "https://logo/north", stores[0].LogoURL)

	items, err := repo.FindReferenceItemsByIDs(ctx, []string{"bread", "milk", "ghost"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	byID := map[string]catalog.ReferenceItem{}
	for _, it := range items {
		byID[it.ID] = it
	}
	assert.True(t, byID["milk"].Availability.Everywhere())
	assert.Equal(t, []string{"s-south"}, byID["bread"].Availability.StoreIDs())
	assert.Equal(t, "Bakery", byID["bread"].Category)

	listings, err := repo.FindStoreItems(ctx, "milk", "s-south")
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.False(t, listings[0].DiscountPrice.IsSet())
	v, ok := listings[0].OriginalPrice.Get()
	assert.True(t, ok)
	assert.Equal(t, 1.75, v)

	none, err := repo.FindStoreItems(ctx, "milk", "s-closed")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCatalogRepositoryBrowse(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupCatalogTestDB(t)
	defer cleanup()

	repo := NewCatalogRepository(pool)
	require.NoError(t, repo.SeedFixture(ctx, testFixture()))

	all, err := repo.ListStores(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	closed, err := repo.GetStore(ctx, "s-closed")
	require.NoError(t, err)
	assert.False(t, closed.Active)
	_, err = repo.GetStore(ctx, "ghost")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	items, err := repo.ListReferenceItems(ctx, catalog.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "bread", items[0].ID, "ordered by name")

	active, err := repo.ListReferenceItems(ctx, catalog.ItemFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	dairy, err := repo.ListReferenceItems(ctx, catalog.ItemFilter{CategoryID: "dairy"})
	require.NoError(t, err)
	require.Len(t, dairy, 1)
	assert.Equal(t, "milk", dairy[0].ID)

	search, err := repo.ListReferenceItems(ctx, catalog.ItemFilter{Query: "REA"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "bread", search[0].ID)

	bread, err := repo.GetReferenceItem(ctx, "bread")
	require.NoError(t, err)
	assert.Equal(t, []string{"s-south"}, bread.Availability.StoreIDs())
	_, err = repo.GetReferenceItem(ctx, "ghost")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	south, err := repo.ListStoreItems(ctx, catalog.StoreItemFilter{StoreID: "s-south"})
	require.NoError(t, err)
	require.Len(t, south, 2)
	assert.Equal(t, "si-s-bread", south[0].ID)

	milk, err := repo.ListStoreItems(ctx, catalog.StoreItemFilter{ReferenceItemID: "milk"})
	require.NoError(t, err)
	assert.Len(t, milk, 2)
}

func TestCatalogRepositoryCompare(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupCatalogTestDB(t)
	defer cleanup()

	repo := NewCatalogRepository(pool)
	require.NoError(t, repo.SeedFixture(ctx, testFixture()))

	resp, err := comparison.NewComparator(repo, nil, nil).CompareBasket(ctx, []string{"milk", "bread", "legacy"})
	require.NoError(t, err)

	require.Len(t, resp.BasketItems, 2)
	require.Len(t, resp.StoreComparisons, 2)

	// North has a bread listing but bread is only assigned to South.
	south, north := resp.StoreComparisons[0], resp.StoreComparisons[1]
	assert.Equal(t, "s-south", south.StoreID)
	assert.True(t, south.AllItemsAvailable)
	assert.Equal(t, 2.25, south.TotalPrice)

	assert.Equal(t, "s-north", north.StoreID)
	assert.Equal(t, []string{"Bread"}, north.MissingItems)
	assert.Equal(t, 1.25, north.TotalPrice)

	require.NotNil(t, resp.CheapestStoreID)
	assert.Equal(t, "s-south", *resp.CheapestStoreID)
}

func TestCatalogRepositoryRecordPrice(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupCatalogTestDB(t)
	defer cleanup()

	repo := NewCatalogRepository(pool)
	require.NoError(t, repo.SeedFixture(ctx, testFixture()))

	older := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)

	require.NoError(t, repo.RecordPrice(ctx, catalog.StorePrice{
		ID: "p-1", StoreItemID: "si-s-milk", Price: 1.5, Currency: "JOD", Timestamp: older,
	}))
	require.NoError(t, repo.RecordPrice(ctx, catalog.StorePrice{
		ID: "p-2", StoreItemID: "si-s-milk", Price: 1.0, OriginalPrice: catalog.SomeAmount(1.75),
		Currency: "JOD", IsPromotion: true, Timestamp: newer,
	}))

	si, err := repo.GetStoreItem(ctx, "si-s-milk")
	require.NoError(t, err)
	price, ok := si.DiscountPrice.Get()
	require.True(t, ok)
	assert.Equal(t, 1.0, price)
	assert.True(t, si.IsPromotion)
	require.NotNil(t, si.LastPriceUpdate)
	assert.True(t, newer.Equal(*si.LastPriceUpdate))

	history, err := repo.PriceHistory(ctx, "si-s-milk")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "p-2", history[0].ID)
	assert.Equal(t, "p-1", history[1].ID)
	assert.False(t, history[1].OriginalPrice.IsSet())

	err = repo.RecordPrice(ctx, catalog.StorePrice{ID: "p-3", StoreItemID: "ghost", Price: 1, Currency: "JOD", Timestamp: newer})
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = repo.GetStoreItem(ctx, "ghost")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	err = repo.RecordPrice(ctx, catalog.StorePrice{ID: "p-4", StoreItemID: "si-s-milk", Price: math.Inf(1), Currency: "JOD", Timestamp: newer})
	require.Error(t, err, "non-finite prices violate the schema")
	si, err = repo.GetStoreItem(ctx, "si-s-milk")
	require.NoError(t, err)
	assert.True(t, si.DiscountPrice.Usable(), "snapshot rolled back with the history insert")
}
