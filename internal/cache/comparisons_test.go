package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbasket/basket-service/internal/comparison"
)

type countingComparer struct {
	calls atomic.Int32
	err   error
}

func (c *countingComparer) CompareBasket(_ context.Context, ids []string) (*comparison.BasketComparisonResponse, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	id, name := "S1", "Store One"
	items := make([]comparison.BasketItemInfo, 0, len(ids))
	for _, i := range ids {
		items = append(items, comparison.BasketItemInfo{ReferenceItemID: i, Name: i})
	}
	return &comparison.BasketComparisonResponse{
		BasketItems: items,
		StoreComparisons: []*comparison.StoreComparisonResult{{
			StoreID:           id,
			StoreName:         name,
			TotalPrice:        2.5,
			Currency:          "JOD",
			AllItemsAvailable: true,
			ItemPrices:        []*comparison.StoreItemPriceInfo{},
			MissingItems:      []string{},
		}},
		CheapestStoreID:   &id,
		CheapestStoreName: &name,
		LowestTotal:       2.5,
		HighestTotal:      2.5,
	}, nil
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestComparisonsCachesResponses(t *testing.T) {
	_, client := setupRedis(t)
	delegate := &countingComparer{}
	c := NewComparisons(client, delegate, time.Minute)
	ctx := context.Background()

	first, err := c.CompareBasket(ctx, []string{"a", "b"})
	require.NoError(t, err)
	second, err := c.CompareBasket(ctx, []string{"a", "b"})
	require.NoError(t, err)

	assert.Equal(t, int32(1), delegate.calls.Load())
	assert.Equal(t, first, second)

	_, err = c.CompareBasket(ctx, []string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), delegate.calls.Load(), "a different order is a different basket")
}

func TestComparisonsInvalidate(t *testing.T) {
	_, client := setupRedis(t)
	delegate := &countingComparer{}
	c := NewComparisons(client, delegate, time.Minute)
	ctx := context.Background()

	_, err := c.CompareBasket(ctx, []string{"a"})
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx))
	_, err = c.CompareBasket(ctx, []string{"a"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), delegate.calls.Load())
}

func TestComparisonsExpire(t *testing.T) {
	mr, client := setupRedis(t)
	delegate := &countingComparer{}
	c := NewComparisons(client, delegate, time.Minute)
	ctx := context.Background()

	_, err := c.CompareBasket(ctx, []string{"a"})
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = c.CompareBasket(ctx, []string{"a"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), delegate.calls.Load())
}

func TestComparisonsRedisDown(t *testing.T) {
	mr, client := setupRedis(t)
	delegate := &countingComparer{}
	c := NewComparisons(client, delegate, time.Minute)
	mr.Close()

	resp, err := c.CompareBasket(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, 2.5, resp.LowestTotal)
	assert.Equal(t, int32(1), delegate.calls.Load())

	assert.Error(t, c.Invalidate(context.Background()))
}

func TestComparisonsBreakerSkipsRedis(t *testing.T) {
	mr, client := setupRedis(t)
	delegate := &countingComparer{}
	c := NewComparisons(client, delegate, time.Minute)
	c.breaker = NewBreaker("test", BreakerConfig{MaxFailures: 1, ResetTimeout: time.Hour, HalfOpenMaxCalls: 1}, c.logger)
	mr.Close()

	_, err := c.CompareBasket(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, BreakerOpen, c.breaker.State())

	_, err = c.CompareBasket(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), delegate.calls.Load())
}

func TestComparisonsDelegateErrorNotCached(t *testing.T) {
	mr, client := setupRedis(t)
	boom := errors.New("storage unavailable")
	delegate := &countingComparer{err: boom}
	c := NewComparisons(client, delegate, time.Minute)

	_, err := c.CompareBasket(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(Key(0, []string{"a"})))
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key(1, []string{"a", "b"}), Key(1, []string{"a", "b"}))
	assert.NotEqual(t, Key(1, []string{"a", "b"}), Key(2, []string{"a", "b"}))
	assert.NotEqual(t, Key(1, []string{"ab"}), Key(1, []string{"a", "b"}))
	assert.Contains(t, Key(3, nil), "basket:compare:3:")
}
