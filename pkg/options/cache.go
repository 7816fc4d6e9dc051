package options

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
	"golang.org/x/sync/singleflight"
)

// CacheConfig sizes the option cache.
type CacheConfig struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	TTL         time.Duration
}

// DefaultCacheConfig suits a handful of listing endpoints with a few hundred
// cached pages.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
		TTL:         time.Minute,
	}
}

// CachedFetcher memoises pages keyed by locale and request URL. Concurrent
// misses for the same key share one upstream request.
type CachedFetcher struct {
	next  Fetcher
	store *ristretto.Cache
	group singleflight.Group
	ttl   time.Duration
}

// NewCachedFetcher wraps next with a Ristretto cache.
func NewCachedFetcher(next Fetcher, cfg CacheConfig) (*CachedFetcher, error) {
	if next == nil {
		return nil, ErrNoFetcher
	}
	defaults := DefaultCacheConfig()
	if cfg.NumCounters <= 0 {
		cfg.NumCounters = defaults.NumCounters
	}
	if cfg.MaxCost <= 0 {
		cfg.MaxCost = defaults.MaxCost
	}
	if cfg.BufferItems <= 0 {
		cfg.BufferItems = defaults.BufferItems
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaults.TTL
	}

	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		return nil, err
	}
	return &CachedFetcher{next: next, store: store, ttl: cfg.TTL}, nil
}

// Fetch implements Fetcher. Errors are never cached. The shared upstream
// request is detached from any single caller; each caller still returns as
// soon as its own ctx is done.
func (c *CachedFetcher) Fetch(ctx context.Context, q Query) (Page, error) {
	key := q.cacheKey()
	if value, ok := c.store.Get(key); ok {
		if page, ok := value.(Page); ok {
			return clonePage(page), nil
		}
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		if value, ok := c.store.Get(key); ok {
			return value, nil
		}
		page, err := c.next.Fetch(shared, q)
		if err != nil {
			return nil, err
		}
		c.store.SetWithTTL(key, page, 1, c.ttl)
		c.store.Wait()
		return page, nil
	})

	select {
	case <-ctx.Done():
		return Page{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Page{}, res.Err
		}
		page, _ := res.Val.(Page)
		return clonePage(page), nil
	}
}

// Invalidate drops the cached page for q.
func (c *CachedFetcher) Invalidate(q Query) {
	c.store.Del(q.cacheKey())
}

// Close releases the cache goroutines.
func (c *CachedFetcher) Close() {
	c.store.Close()
}

func clonePage(p Page) Page {
	p.Options = append([]Option(nil), p.Options...)
	return p
}
