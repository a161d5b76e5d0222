package figma

import (
	"context"
	"sync"
	"time"
)

const DefaultCacheTTL = 15 * time.Minute

type cacheEntry struct {
	data     any
	storedAt time.Time
}

// Cache memoizes design-API responses by semantic key. An entry is served
// until its age reaches the TTL, then the next lookup refetches and
// overwrites it; entries are never evicted otherwise. There is no
// single-flight suppression: two concurrent misses on the same key both
// invoke fetch and the later write wins. Fetch failures are not cached.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.storedAt) < c.ttl {
		c.mu.Unlock()
		return e.data, nil
	}
	c.mu.Unlock()

	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{data: data, storedAt: c.now()}
	c.mu.Unlock()
	return data, nil
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
