package collector

import (
	"context"
	"sync"
	"time"
)

// TTLCache holds one value with its fetch time. A read within TTL returns the cached
// value; otherwise the loader runs, and on loader failure the last good value is
// returned marked stale.
type TTLCache[T any] struct {
	mu        sync.Mutex
	ttl       time.Duration
	value     T
	fetchedAt time.Time
	has       bool
	now       func() time.Time
}

// NewTTLCache creates an empty cache.
func NewTTLCache[T any](ttl time.Duration) *TTLCache[T] {
	return &TTLCache[T]{ttl: ttl, now: time.Now}
}

// Get returns the cached or freshly loaded value. stale is true when a refresh
// failed and the last good value was served instead.
func (c *TTLCache[T]) Get(ctx context.Context, load func(context.Context) (T, error)) (value T, stale bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.has && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.value, false, nil
	}
	v, err := load(ctx)
	if err != nil {
		if c.has {
			return c.value, true, nil
		}
		var zero T
		return zero, false, err
	}
	c.value = v
	c.fetchedAt = c.now()
	c.has = true
	return v, false, nil
}
