package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/smartbasket/basket-service/internal/comparison"
)

const (
	keyPrefix  = "basket:compare:"
	versionKey = "basket:catalog:version"
)

// Comparisons caches comparison responses in Redis. Keys embed the catalog
// version, so bumping the version orphans every earlier entry.
type Comparisons struct {
	client   *redis.Client
	delegate comparison.Comparer
	ttl      time.Duration
	breaker  *Breaker
	logger   zerolog.Logger
}

// NewComparisons wraps delegate with a Redis-backed cache.
func NewComparisons(client *redis.Client, delegate comparison.Comparer, ttl time.Duration) *Comparisons {
	logger := log.With().Str("component", "comparison_cache").Logger()
	return &Comparisons{
		client:   client,
		delegate: delegate,
		ttl:      ttl,
		breaker:  NewBreaker("comparison_cache", DefaultBreakerConfig(), logger),
		logger:   logger,
	}
}

// CompareBasket returns a cached response when one exists for the current
// catalog version. Redis failures fall through to the delegate, and while
// the breaker is open Redis is skipped entirely.
func (c *Comparisons) CompareBasket(ctx context.Context, referenceItemIDs []string) (*comparison.BasketComparisonResponse, error) {
	if !c.breaker.Allow() {
		return c.delegate.CompareBasket(ctx, referenceItemIDs)
	}

	version, err := c.version(ctx)
	if err != nil {
		c.breaker.RecordFailure(err)
		c.logger.Warn().Err(err).Msg("Failed to read catalog version, bypassing cache")
		return c.delegate.CompareBasket(ctx, referenceItemIDs)
	}

	key := Key(version, referenceItemIDs)
	var cached comparison.BasketComparisonResponse
	hit, err := c.getJSON(ctx, key, &cached)
	if err != nil {
		c.breaker.RecordFailure(err)
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to read cached comparison")
	}
	if hit {
		c.breaker.RecordSuccess()
		return &cached, nil
	}

	resp, err := c.delegate.CompareBasket(ctx, referenceItemIDs)
	if err != nil {
		return nil, err
	}

	if err := c.setJSON(ctx, key, resp); err != nil {
		c.breaker.RecordFailure(err)
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache comparison")
	} else {
		c.breaker.RecordSuccess()
	}
	return resp, nil
}

// Invalidate bumps the catalog version.
func (c *Comparisons) Invalidate(ctx context.Context) error {
	return InvalidateCatalog(ctx, c.client)
}

// InvalidateCatalog bumps the catalog version for every process sharing client.
func InvalidateCatalog(ctx context.Context, client *redis.Client) error {
	if err := client.Incr(ctx, versionKey).Err(); err != nil {
		return fmt.Errorf("failed to bump catalog version: %w", err)
	}
	return nil
}

func (c *Comparisons) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *Comparisons) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Comparisons) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Key builds the cache key for a basket. Order matters because it decides
// the order of the basket in the response.
func Key(version int64, referenceItemIDs []string) string {
	sum := sha256.Sum256([]byte(strings.Join(referenceItemIDs, "\x00")))
	return keyPrefix + strconv.FormatInt(version, 10) + ":" + hex.EncodeToString(sum[:])
}
