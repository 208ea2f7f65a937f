// Package cache provides the injected query cache shared by the messaging
// components. Entries are keyed by (resource, params) so invalidation can
// target one query or a whole resource family.
package cache

import (
	"sync"
	"time"
)

// Key identifies one cached query.
type Key struct {
	Resource string
	Params   string
}

type entry struct {
	value   any
	expires time.Time
}

// Cache is a mutex-guarded TTL cache. The zero value is not usable; use New.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]entry
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the cache's time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[Key]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for key, if present and not expired.
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		c.mu.Lock()
		// Re-check under the write lock; a Set may have raced the expiry.
		if cur, ok := c.entries[key]; ok && c.now().After(cur.expires) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for the given lifetime.
func (c *Cache) Set(key Key, value any, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expires: c.now().Add(ttl)}
	c.mu.Unlock()
}

// Invalidate removes one entry.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidateResource removes every entry under a resource, regardless of
// params.
func (c *Cache) InvalidateResource(resource string) {
	c.mu.Lock()
	for key := range c.entries {
		if key.Resource == resource {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Len returns the number of live entries, counting expired ones that have
// not been touched since expiry.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
