// Package cache keeps hot read-only lookups in a bounded in-process LRU with expiry.
package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

type entry struct {
	value     any
	timestamp time.Time
}

// TTLCache is an LRU cache whose entries also go stale after ttl.
// A ttl of zero keeps entries until evicted.
type TTLCache struct {
	mu    sync.Mutex
	cache *lru.Cache
	ttl   time.Duration
	now   func() time.Time
}

func New(size int, ttl time.Duration) (*TTLCache, error) {
	if size <= 0 {
		size = 1
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &TTLCache{cache: c, ttl: ttl, now: time.Now}, nil
}

func (c *TTLCache) Get(key string) (any, bool) {
	raw, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	e, ok := raw.(entry)
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(e.timestamp) >= c.ttl {
		c.cache.Remove(key)
		return nil, false
	}
	return e.value, true
}

func (c *TTLCache) Set(key string, value any) {
	c.cache.Add(key, entry{value: value, timestamp: c.now()})
}

// GetOrLoad returns the cached value for key or stores the result of load.
// Concurrent misses on the same key are serialised so load runs once.
func (c *TTLCache) GetOrLoad(key string, load func() (any, error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return nil, err
	}
	c.Set(key, v)
	return v, nil
}

// Purge drops every entry, used after the catalog is re-imported.
func (c *TTLCache) Purge() {
	c.cache.Purge()
}

func (c *TTLCache) Len() int {
	return c.cache.Len()
}
