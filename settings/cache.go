package settings

import (
	"context"
	"sync"
	"time"
)

// Fetcher loads the current settings map from storage.
type Fetcher func(ctx context.Context) (map[string]interface{}, error)

// Cache holds the settings map with a fetch timestamp behind a TTL check.
// It replaces the old pattern of a bare module-level cached value: the cache
// is constructed and injected, and the clock is swappable so tests control
// expiry.
type Cache struct {
	mu        sync.Mutex
	value     map[string]interface{}
	fetchedAt time.Time
	ttl       time.Duration
	fetch     Fetcher
	now       func() time.Time
}

func NewCache(ttl time.Duration, fetch Fetcher) *Cache {
	return &Cache{
		ttl:   ttl,
		fetch: fetch,
		now:   time.Now,
	}
}

// WithClock swaps the time source. Test hook.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Get returns the cached settings map, refreshing it when the TTL has
// lapsed. A failed refresh serves the stale value when one exists.
func (c *Cache) Get(ctx context.Context) (map[string]interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.value != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.value, nil
	}

	fresh, err := c.fetch(ctx)
	if err != nil {
		if c.value != nil {
			return c.value, nil
		}
		return nil, err
	}

	c.value = fresh
	c.fetchedAt = c.now()
	return c.value, nil
}

// Invalidate drops the cached value so the next Get refetches. Admin writes
// call it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.value = nil
	c.mu.Unlock()
}

// Bool reads a boolean flag, tolerating the loose typing of stored values.
func (c *Cache) Bool(ctx context.Context, key string) bool {
	m, err := c.Get(ctx)
	if err != nil {
		return false
	}
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1"
	default:
		return false
	}
}

// String reads a text setting, returning fallback when absent or non-text.
func (c *Cache) String(ctx context.Context, key, fallback string) string {
	m, err := c.Get(ctx)
	if err != nil {
		return fallback
	}
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// Float reads a numeric setting, returning fallback when absent or malformed.
func (c *Cache) Float(ctx context.Context, key string, fallback float64) float64 {
	m, err := c.Get(ctx)
	if err != nil {
		return fallback
	}
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return fallback
	}
}
