package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/currency"

	"github.com/smartbasket/basket-service/internal/catalog"
)

// PriceUpdate is a single price write for a store item.
type PriceUpdate struct {
	StoreItemID   string   `json:"storeItemId" binding:"required"`
	Price         *float64 `json:"price" binding:"required"`
	OriginalPrice *float64 `json:"originalPrice"`
	Currency      string   `json:"currency"`
	IsPromotion   bool     `json:"isPromotion"`
}

// BatchEntry is the outcome of one entry in a batch update.
type BatchEntry struct {
	Index       int                 `json:"index"`
	StoreItemID string              `json:"storeItemId"`
	Success     bool                `json:"success"`
	Error       string              `json:"error,omitempty"`
	Price       *catalog.StorePrice `json:"price,omitempty"`
}

// BatchResult summarises a batch update.
type BatchResult struct {
	Results      []BatchEntry `json:"results"`
	SuccessCount int          `json:"successCount"`
	FailureCount int          `json:"failureCount"`
}

// ErrInvalidPrice is returned when an update fails validation.
type ErrInvalidPrice struct {
	Field  string
	Reason string
}

func (e ErrInvalidPrice) Error() string {
	return e.Field + ": " + e.Reason
}

// Invalidator is notified after prices change.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service records store item prices.
type Service struct {
	store           catalog.PriceWriter
	invalidator     Invalidator
	defaultCurrency string
	now             func() time.Time
	logger          zerolog.Logger
}

// NewService creates a price service. invalidator may be nil.
func NewService(store catalog.PriceWriter, invalidator Invalidator, defaultCurrency string) *Service {
	return &Service{
		store:           store,
		invalidator:     invalidator,
		defaultCurrency: defaultCurrency,
		now:             time.Now,
		logger:          log.With().Str("component", "price_service").Logger(),
	}
}

// UpdatePrice validates and records a single price.
func (s *Service) UpdatePrice(ctx context.Context, update PriceUpdate) (*catalog.StorePrice, error) {
	price, err := s.record(ctx, update)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return price, nil
}

// BatchUpdate records every entry independently. Failed entries are reported
// and never stop the batch.
func (s *Service) BatchUpdate(ctx context.Context, updates []PriceUpdate) *BatchResult {
	result := &BatchResult{Results: make([]BatchEntry, 0, len(updates))}

	for i, update := range updates {
		entry := BatchEntry{Index: i, StoreItemID: update.StoreItemID}
		price, err := s.record(ctx, update)
		if err != nil {
			entry.Error = err.Error()
			result.FailureCount++
		} else {
			entry.Success = true
			entry.Price = price
			result.SuccessCount++
		}
		result.Results = append(result.Results, entry)
	}

	if result.SuccessCount > 0 {
		s.invalidate(ctx)
	}

	s.logger.Info().
		Int("total", len(updates)).
		Int("success", result.SuccessCount).
		Int("failed", result.FailureCount).
		Msg("Batch price update completed")

	return result
}

// History returns the recorded prices of a store item, newest first.
func (s *Service) History(ctx context.Context, storeItemID string) ([]catalog.StorePrice, error) {
	if _, err := s.store.GetStoreItem(ctx, storeItemID); err != nil {
		return nil, err
	}
	history, err := s.store.PriceHistory(ctx, storeItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}
	return history, nil
}

func (s *Service) record(ctx context.Context, update PriceUpdate) (*catalog.StorePrice, error) {
	cur, err := s.validate(update)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetStoreItem(ctx, update.StoreItemID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("store item %s: %w", update.StoreItemID, err)
		}
		return nil, fmt.Errorf("failed to load store item: %w", err)
	}

	price := catalog.StorePrice{
		ID:            uuid.NewString(),
		StoreItemID:   update.StoreItemID,
		Price:         *update.Price,
		OriginalPrice: catalog.AmountFromPtr(update.OriginalPrice),
		Currency:      cur,
		IsPromotion:   update.IsPromotion,
		Timestamp:     s.now().UTC(),
	}
	if err := s.store.RecordPrice(ctx, price); err != nil {
		return nil, fmt.Errorf("failed to record price: %w", err)
	}

	s.logger.Debug().
		Str("store_item_id", price.StoreItemID).
		Float64("price", price.Price).
		Str("currency", price.Currency).
		Msg("Price recorded")

	return &price, nil
}

func (s *Service) validate(update PriceUpdate) (string, error) {
	if strings.TrimSpace(update.StoreItemID) == "" {
		return "", ErrInvalidPrice{Field: "storeItemId", Reason: "is required"}
	}
	if update.Price == nil {
		return "", ErrInvalidPrice{Field: "price", Reason: "is required"}
	}
	if !isFinite(*update.Price) {
		return "", ErrInvalidPrice{Field: "price", Reason: "must be a finite number"}
	}
	if *update.Price < 0 {
		return "", ErrInvalidPrice{Field: "price", Reason: "must not be negative"}
	}
	if update.OriginalPrice != nil {
		if !isFinite(*update.OriginalPrice) {
			return "", ErrInvalidPrice{Field: "originalPrice", Reason: "must be a finite number"}
		}
		if *update.OriginalPrice < 0 {
			return "", ErrInvalidPrice{Field: "originalPrice", Reason: "must not be negative"}
		}
	}

	code := strings.ToUpper(strings.TrimSpace(update.Currency))
	if code == "" {
		return s.defaultCurrency, nil
	}
	if _, err := currency.ParseISO(code); err != nil {
		return "", ErrInvalidPrice{Field: "currency", Reason: "must be an ISO 4217 code"}
	}
	return code, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to invalidate comparison cache")
	}
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
