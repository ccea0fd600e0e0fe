package geocode

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/yjk624/shinryeong/pkg/models/domain"
)

// Cache memoizes a Resolver by normalized place name. Concurrent lookups of
// the same name share one backend call, which runs detached from any single
// caller's cancellation and is bounded by the cache timeout instead. Misses
// and failures are not stored, so a later request may still succeed.
type Cache struct {
	resolver   Resolver
	maxEntries int
	timeout    time.Duration

	mu      sync.RWMutex
	entries map[string]domain.Location
	group   singleflight.Group
}

// NewCache wraps resolver. maxEntries <= 0 means unbounded; when bounded and
// full, an arbitrary entry is evicted. timeout bounds one shared backend
// call; <= 0 leaves it unbounded.
func NewCache(resolver Resolver, maxEntries int, timeout time.Duration) *Cache {
	return &Cache{
		resolver:   resolver,
		maxEntries: maxEntries,
		timeout:    timeout,
		entries:    make(map[string]domain.Location),
	}
}

func (c *Cache) Resolve(ctx context.Context, place string) (domain.Location, error) {
	key := NormalizeKey(place)
	if key == "" {
		return domain.Location{}, notFound(place)
	}

	if loc, ok := c.get(key); ok {
		return loc, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		// a caller that lost the race may find the entry already stored
		if loc, ok := c.get(key); ok {
			return loc, nil
		}
		callCtx, cancel := c.sharedContext(ctx)
		defer cancel()
		loc, err := c.resolver.Resolve(callCtx, place)
		if err != nil {
			return domain.Location{}, err
		}
		c.put(key, loc)
		return loc, nil
	})

	select {
	case <-ctx.Done():
		return domain.Location{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.Location{}, res.Err
		}
		zerolog.Ctx(ctx).Debug().
			Str("place", place).
			Bool("shared", res.Shared).
			Msg("resolved place")
		return res.Val.(domain.Location), nil
	}
}

// sharedContext keeps the values of the first caller's ctx (logger, request
// id) but not its cancellation.
func (c *Cache) sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if c.timeout <= 0 {
		return detached, func() {}
	}
	return context.WithTimeout(detached, c.timeout)
}

// Len reports the number of cached places.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) get(key string) (domain.Location, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	loc, ok := c.entries[key]
	return loc, ok
}

func (c *Cache) put(key string, loc domain.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}
	c.entries[key] = loc
}
