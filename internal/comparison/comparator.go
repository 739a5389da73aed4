package comparison

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/smartbasket/basket-service/internal/catalog"
)

// Comparer compares a basket across all active stores.
type Comparer interface {
	CompareBasket(ctx context.Context, referenceItemIDs []string) (*BasketComparisonResponse, error)
}

// Comparator implements Comparer on top of a catalog.Reader.
type Comparator struct {
	catalog    catalog.Reader
	calculator *StoreTotalCalculator
	config     *Config
	metrics    *MetricsRecorder
	tracer     trace.Tracer
	logger     zerolog.Logger
}

// NewComparator creates a basket comparator. A nil config uses DefaultConfig;
// unset fields of a partial config take their defaults. A nil metrics
// recorder gets a fresh one.
func NewComparator(reader catalog.Reader, config *Config, metrics *MetricsRecorder) *Comparator {
	config = withDefaults(config)
	if metrics == nil {
		metrics = NewMetricsRecorder()
	}
	return &Comparator{
		catalog:    reader,
		calculator: NewStoreTotalCalculator(reader, config.DefaultCurrency),
		config:     config,
		metrics:    metrics,
		tracer:     otel.Tracer("github.com/smartbasket/basket-service/internal/comparison"),
		logger:     log.With().Str("component", "basket_comparator").Logger(),
	}
}

// CompareBasket prices the basket at every active store and ranks the stores.
// Unknown and inactive ids are dropped. Catalog read failures abort the whole
// comparison.
func (c *Comparator) CompareBasket(ctx context.Context, referenceItemIDs []string) (resp *BasketComparisonResponse, err error) {
	startTime := time.Now()
	ctx, span := c.tracer.Start(ctx, "comparison.CompareBasket",
		trace.WithAttributes(attribute.Int("basket.requested", len(referenceItemIDs))))
	defer func() {
		c.metrics.RecordComparison(ctx, time.Since(startTime), err == nil)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	basket, err := c.resolveBasket(ctx, referenceItemIDs)
	if err != nil {
		return nil, err
	}
	c.metrics.RecordBasket(len(basket), countDistinct(referenceItemIDs)-len(basket))

	stores, err := c.catalog.FindActiveStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active stores: %w", err)
	}

	results, err := c.calculateAll(ctx, stores, basket)
	if err != nil {
		return nil, err
	}

	rankResults(results)
	s := summarize(results)

	resp = &BasketComparisonResponse{
		BasketItems:      basketInfos(basket),
		StoreComparisons: results,
		LowestTotal:      s.lowest,
		HighestTotal:     s.highest,
		PotentialSavings: s.highest - s.lowest,
	}
	fullyAvailable := 0
	for _, r := range results {
		if r.AllItemsAvailable {
			fullyAvailable++
		}
	}
	if s.cheapest != nil {
		resp.CheapestStoreID = strPtr(s.cheapest.StoreID)
		resp.CheapestStoreName = strPtr(s.cheapest.StoreName)
	}

	c.metrics.RecordStores(len(results), fullyAvailable)
	c.metrics.RecordSavings(resp.PotentialSavings)
	span.SetAttributes(
		attribute.Int("basket.size", len(basket)),
		attribute.Int("stores.count", len(results)),
		attribute.Int("stores.fully_available", fullyAvailable),
	)

	c.logger.Debug().
		Int("basket_size", len(basket)).
		Int("stores", len(results)).
		Int("fully_available", fullyAvailable).
		Dur("duration", time.Since(startTime)).
		Msg("Basket compared")

	return resp, nil
}

// resolveBasket loads the requested items, keeps the active ones and puts
// them in request order. Repeated ids collapse into their first occurrence.
func (c *Comparator) resolveBasket(ctx context.Context, ids []string) ([]catalog.ReferenceItem, error) {
	if len(ids) == 0 {
		return []catalog.ReferenceItem{}, nil
	}

	found, err := c.catalog.FindReferenceItemsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference items: %w", err)
	}

	byID := make(map[string]catalog.ReferenceItem, len(found))
	for _, item := range found {
		if item.Active {
			byID[item.ID] = item
		}
	}

	basket := make([]catalog.ReferenceItem, 0, len(byID))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if item, ok := byID[id]; ok {
			basket = append(basket, item)
		}
	}
	return basket, nil
}

// calculateAll runs the per-store calculation with bounded concurrency. The
// returned slice keeps the order of stores.
func (c *Comparator) calculateAll(ctx context.Context, stores []catalog.Store, basket []catalog.ReferenceItem) ([]*StoreComparisonResult, error) {
	results := make([]*StoreComparisonResult, len(stores))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.Parallelism)

	for i, store := range stores {
		g.Go(func() error {
			result, err := c.calculator.Calculate(gctx, store, basket)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func basketInfos(basket []catalog.ReferenceItem) []BasketItemInfo {
	infos := make([]BasketItemInfo, 0, len(basket))
	for _, item := range basket {
		infos = append(infos, BasketItemInfo{
			ReferenceItemID: item.ID,
			Name:            item.Name,
			Category:        item.Category,
		})
	}
	return infos
}

func countDistinct(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}

// withDefaults returns a copy of config with unset fields filled in. The
// caller's value is never modified.
func withDefaults(config *Config) *Config {
	defaults := DefaultConfig()
	if config == nil {
		return defaults
	}
	cfg := *config
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = defaults.DefaultCurrency
	}
	if cfg.Parallelism < 1 {
		cfg.Parallelism = 1
	}
	if cfg.MaxBasketItems < 1 {
		cfg.MaxBasketItems = defaults.MaxBasketItems
	}
	return &cfg
}
