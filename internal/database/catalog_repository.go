package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartbasket/basket-service/internal/catalog"
)

// CatalogRepository serves the catalog from PostgreSQL.
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a repository on top of db.
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// FindReferenceItemsByIDs loads the requested reference items together with
// their store assignments.
func (r *CatalogRepository) FindReferenceItemsByIDs(ctx context.Context, ids []string) ([]catalog.ReferenceItem, error) {
	if len(ids) == 0 {
		return []catalog.ReferenceItem{}, nil
	}
	return r.queryReferenceItems(ctx, `WHERE ri.id = ANY($1)`, `ORDER BY ri.id`, ids)
}

// ListReferenceItems returns reference items matching filter, ordered by name.
func (r *CatalogRepository) ListReferenceItems(ctx context.Context, filter catalog.ItemFilter) ([]catalog.ReferenceItem, error) {
	return r.queryReferenceItems(ctx, `
		WHERE ($1 = '' OR ri.category_id = $1)
		  AND ($2 = '' OR strpos(lower(ri.name), lower($2)) > 0)
		  AND (NOT $3 OR ri.active)`,
		`ORDER BY ri.name, ri.id`,
		filter.CategoryID, filter.Query, filter.ActiveOnly)
}

// GetReferenceItem returns a single reference item.
func (r *CatalogRepository) GetReferenceItem(ctx context.Context, id string) (catalog.ReferenceItem, error) {
	items, err := r.FindReferenceItemsByIDs(ctx, []string{id})
	if err != nil {
		return catalog.ReferenceItem{}, err
	}
	if len(items) == 0 {
		return catalog.ReferenceItem{}, catalog.ErrNotFound
	}
	return items[0], nil
}

func (r *CatalogRepository) queryReferenceItems(ctx context.Context, where, orderBy string, args ...any) ([]catalog.ReferenceItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ri.id, ri.name, COALESCE(ri.category_id, ''), COALESCE(ri.category_name, ''),
		       ri.active, ri.available_in_all_stores,
		       COALESCE(array_agg(ris.store_id ORDER BY ris.store_id) FILTER (WHERE ris.store_id IS NOT NULL), '{}')
		FROM reference_items ri
		LEFT JOIN reference_item_stores ris ON ris.reference_item_id = ri.id
		`+where+`
		GROUP BY ri.id
		`+orderBy, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reference items: %w", err)
	}
	defer rows.Close()

	items := make([]catalog.ReferenceItem, 0)
	for rows.Next() {
		var (
			item     catalog.ReferenceItem
			allStore bool
			storeIDs []string
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.CategoryID, &item.Category,
			&item.Active, &allStore, &storeIDs); err != nil {
			return nil, fmt.Errorf("failed to scan reference item: %w", err)
		}
		item.Availability = catalog.NewAvailability(allStore, storeIDs)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reference items: %w", err)
	}
	return items, nil
}

// FindActiveStores returns active stores ordered by creation time.
func (r *CatalogRepository) FindActiveStores(ctx context.Context) ([]catalog.Store, error) {
	return r.ListStores(ctx, true)
}

// ListStores returns stores ordered by creation time.
func (r *CatalogRepository) ListStores(ctx context.Context, activeOnly bool) ([]catalog.Store, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+storeColumns+`
		FROM stores
		WHERE (NOT $1 OR active)
		ORDER BY created_at, id
	`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	stores := make([]catalog.Store, 0)
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stores: %w", err)
	}
	return stores, nil
}

// GetStore returns a single store.
func (r *CatalogRepository) GetStore(ctx context.Context, id string) (catalog.Store, error) {
	s, err := scanStore(r.db.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Store{}, catalog.ErrNotFound
	}
	return s, err
}

const storeColumns = `id, name, COALESCE(location, ''), COALESCE(logo_url, ''), active`

const storeItemColumns = `
	id, store_id, reference_item_id, name, COALESCE(brand, ''), COALESCE(barcode, ''),
	discount_price, original_price, COALESCE(currency, ''), is_promotion, last_price_update
`

// FindStoreItems returns the listings of a reference item at a store.
func (r *CatalogRepository) FindStoreItems(ctx context.Context, referenceItemID, storeID string) ([]catalog.StoreItem, error) {
	return r.queryStoreItems(ctx, `WHERE reference_item_id = $1 AND store_id = $2`, referenceItemID, storeID)
}

func (r *CatalogRepository) queryStoreItems(ctx context.Context, where string, args ...any) ([]catalog.StoreItem, error) {
	rows, err := r.db.Query(ctx, `SELECT `+storeItemColumns+` FROM store_items `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query store items: %w", err)
	}
	defer rows.Close()

	items := make([]catalog.StoreItem, 0, 1)
	for rows.Next() {
		si, err := scanStoreItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, si)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating store items: %w", err)
	}
	return items, nil
}

// ListStoreItems returns listings matching filter, ordered by id.
func (r *CatalogRepository) ListStoreItems(ctx context.Context, filter catalog.StoreItemFilter) ([]catalog.StoreItem, error) {
	return r.queryStoreItems(ctx, `
		WHERE ($1 = '' OR reference_item_id = $1) AND ($2 = '' OR store_id = $2)
	`, filter.ReferenceItemID, filter.StoreID)
}

// GetStoreItem returns a single listing.
func (r *CatalogRepository) GetStoreItem(ctx context.Context, id string) (catalog.StoreItem, error) {
	row := r.db.QueryRow(ctx, `SELECT `+storeItemColumns+` FROM store_items WHERE id = $1`, id)
	si, err := scanStoreItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.StoreItem{}, catalog.ErrNotFound
	}
	return si, err
}

// RecordPrice inserts a history row and refreshes the listing snapshot in a
// single transaction.
func (r *CatalogRepository) RecordPrice(ctx context.Context, price catalog.StorePrice) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE store_items
		SET discount_price = $2, original_price = $3, currency = $4,
		    is_promotion = $5, last_price_update = $6
		WHERE id = $1
	`, price.StoreItemID, price.Price, price.OriginalPrice.Ptr(), price.Currency,
		price.IsPromotion, price.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to update store item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO store_prices (id, store_item_id, price, original_price, currency, is_promotion, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, price.ID, price.StoreItemID, price.Price, price.OriginalPrice.Ptr(), price.Currency,
		price.IsPromotion, price.Timestamp); err != nil {
		return fmt.Errorf("failed to insert price history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit price: %w", err)
	}
	return nil
}

// PriceHistory returns the recorded prices of a listing, newest first.
func (r *CatalogRepository) PriceHistory(ctx context.Context, storeItemID string) ([]catalog.StorePrice, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, store_item_id, price, original_price, currency, is_promotion, recorded_at
		FROM store_prices
		WHERE store_item_id = $1
		ORDER BY recorded_at DESC, id
	`, storeItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	history := make([]catalog.StorePrice, 0)
	for rows.Next() {
		var (
			p        catalog.StorePrice
			original *float64
		)
		if err := rows.Scan(&p.ID, &p.StoreItemID, &p.Price, &original, &p.Currency,
			&p.IsPromotion, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		p.OriginalPrice = catalog.AmountFromPtr(original)
		history = append(history, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price history: %w", err)
	}
	return history, nil
}

// SeedFixture upserts every record of f in one transaction.
func (r *CatalogRepository) SeedFixture(ctx context.Context, f catalog.Fixture) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	now := time.Now()
	for i, s := range f.Stores {
		// Spread creation times so fixture order becomes store order.
		batch.Queue(`
			INSERT INTO stores (id, name, location, logo_url, active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, location = EXCLUDED.location,
				logo_url = EXCLUDED.logo_url, active = EXCLUDED.active
		`, s.ID, s.Name, s.Location, s.LogoURL, s.Active, now.Add(time.Duration(i)*time.Millisecond))
	}
	for _, item := range f.ReferenceItems {
		batch.Queue(`
			INSERT INTO reference_items (id, name, category_id, category_name, active, available_in_all_stores)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, category_id = EXCLUDED.category_id,
				category_name = EXCLUDED.category_name, active = EXCLUDED.active,
				available_in_all_stores = EXCLUDED.available_in_all_stores
		`, item.ID, item.Name, item.CategoryID, item.Category, item.Active, item.Availability.Everywhere())
		batch.Queue(`DELETE FROM reference_item_stores WHERE reference_item_id = $1`, item.ID)
		for _, storeID := range item.Availability.StoreIDs() {
			batch.Queue(`
				INSERT INTO reference_item_stores (reference_item_id, store_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, item.ID, storeID)
		}
	}
	for _, si := range f.StoreItems {
		batch.Queue(`
			INSERT INTO store_items (id, store_id, reference_item_id, name, brand, barcode,
				discount_price, original_price, currency, is_promotion, last_price_update)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, brand = EXCLUDED.brand, barcode = EXCLUDED.barcode,
				discount_price = EXCLUDED.discount_price, original_price = EXCLUDED.original_price,
				currency = EXCLUDED.currency, is_promotion = EXCLUDED.is_promotion,
				last_price_update = EXCLUDED.last_price_update
		`, si.ID, si.StoreID, si.ReferenceItemID, si.Name, si.Brand, si.Barcode,
			si.DiscountPrice.Ptr(), si.OriginalPrice.Ptr(), nullIfEmpty(si.Currency),
			si.IsPromotion, si.LastPriceUpdate)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to seed catalog (statement %d): %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}

func scanStore(row pgx.Row) (catalog.Store, error) {
	var s catalog.Store
	if err := row.Scan(&s.ID, &s.Name, &s.Location, &s.LogoURL, &s.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Store{}, err
		}
		return catalog.Store{}, fmt.Errorf("failed to scan store: %w", err)
	}
	return s, nil
}

func scanStoreItem(row pgx.Row) (catalog.StoreItem, error) {
	var (
		si                 catalog.StoreItem
		discount, original *float64
	)
	err := row.Scan(&si.ID, &si.StoreID, &si.ReferenceItemID, &si.Name, &si.Brand, &si.Barcode,
		&discount, &original, &si.Currency, &si.IsPromotion, &si.LastPriceUpdate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.StoreItem{}, err
		}
		return catalog.StoreItem{}, fmt.Errorf("failed to scan store item: %w", err)
	}
	si.DiscountPrice = catalog.AmountFromPtr(discount)
	si.OriginalPrice = catalog.AmountFromPtr(original)
	return si, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
