package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheServesWithinTTL(t *testing.T) {
	var fetches int
	cache := NewCache(time.Minute, func(ctx context.Context) (map[string]interface{}, error) {
		fetches++
		return map[string]interface{}{"currency": "GBP"}, nil
	})

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.WithClock(func() time.Time { return clock })

	for i := 0; i < 5; i++ {
		m, err := cache.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "GBP", m["currency"])
	}
	assert.Equal(t, 1, fetches, "one fetch inside the TTL window")
}

func TestCacheRefetchesAfterExpiry(t *testing.T) {
	var fetches int
	cache := NewCache(time.Minute, func(ctx context.Context) (map[string]interface{}, error) {
		fetches++
		return map[string]interface{}{"n": fetches}, nil
	})

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.WithClock(func() time.Time { return clock })

	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	clock = clock.Add(61 * time.Second)
	m, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fetches)
	assert.Equal(t, 2, m["n"])
}

func TestCacheServesStaleOnRefreshFailure(t *testing.T) {
	var fetches int
	cache := NewCache(time.Minute, func(ctx context.Context) (map[string]interface{}, error) {
		fetches++
		if fetches > 1 {
			return nil, errors.New("db down")
		}
		return map[string]interface{}{"currency": "GBP"}, nil
	})

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.WithClock(func() time.Time { return clock })

	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	clock = clock.Add(2 * time.Minute)
	m, err := cache.Get(context.Background())
	require.NoError(t, err, "stale value beats an error")
	assert.Equal(t, "GBP", m["currency"])
}

func TestCacheErrorWithNothingCached(t *testing.T) {
	cache := NewCache(time.Minute, func(ctx context.Context) (map[string]interface{}, error) {
		return nil, errors.New("db down")
	})
	_, err := cache.Get(context.Background())
	assert.Error(t, err)
}

func TestCacheInvalidate(t *testing.T) {
	var fetches int
	cache := NewCache(time.Hour, func(ctx context.Context) (map[string]interface{}, error) {
		fetches++
		return map[string]interface{}{}, nil
	})

	_, _ = cache.Get(context.Background())
	cache.Invalidate()
	_, _ = cache.Get(context.Background())
	assert.Equal(t, 2, fetches)
}

func TestCacheTypedGetters(t *testing.T) {
	cache := NewCache(time.Hour, func(ctx context.Context) (map[string]interface{}, error) {
		return map[string]interface{}{
			"maintenance_mode":     true,
			"flagged_as_string":    "true",
			"low_stock_threshold":  float64(5),
			"default_delivery_fee": float64(4.99),
			"currency":             "GBP",
			"announcement_text":    "",
			"bad_value":            []string{"x"},
		}, nil
	})

	ctx := context.Background()
	assert.True(t, cache.Bool(ctx, "maintenance_mode"))
	assert.True(t, cache.Bool(ctx, "flagged_as_string"))
	assert.False(t, cache.Bool(ctx, "missing"))
	assert.False(t, cache.Bool(ctx, "bad_value"))
	assert.Equal(t, 5.0, cache.Float(ctx, "low_stock_threshold", 3))
	assert.Equal(t, 4.99, cache.Float(ctx, "default_delivery_fee", 0))
	assert.Equal(t, 3.0, cache.Float(ctx, "missing", 3))
	assert.Equal(t, "GBP", cache.String(ctx, "currency", "USD"))
	assert.Equal(t, "USD", cache.String(ctx, "missing", "USD"))
	assert.Equal(t, "fallback", cache.String(ctx, "announcement_text", "fallback"),
		"empty string reads as unset")
	assert.Equal(t, "fallback", cache.String(ctx, "bad_value", "fallback"))
}
