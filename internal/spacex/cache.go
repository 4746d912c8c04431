package spacex

import (
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
)

const defaultCacheEntries = 256

type cacheEntry struct {
	body    []byte
	expires time.Time
}

// responseCache keeps raw GET bodies until their per-entry deadline.
type responseCache struct {
	mu  sync.Mutex
	lru *lru.Cache
	now func() time.Time
}

func newResponseCache(size int, now func() time.Time) *responseCache {
	if size <= 0 {
		size = defaultCacheEntries
	}
	if now == nil {
		now = time.Now
	}
	return &responseCache{lru: lru.New(size), now: now}
}

func (c *responseCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	entry := v.(cacheEntry)
	if !c.now().Before(entry.expires) {
		c.lru.Remove(key)
		return nil, false
	}
	return entry.body, true
}

func (c *responseCache) put(key string, body []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, cacheEntry{body: body, expires: c.now().Add(ttl)})
}
