package cache

import (
	"sync"
	"time"
)

// Cache provides a minimal TTL cache interface for hot-path lookups.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Delete(key K)
}

type cacheEntry[V any] struct {
	value    V
	deadline int64
}

func (e cacheEntry[V]) expired(now int64) bool {
	return e.deadline > 0 && now > e.deadline
}

// TTLCache stores values in-memory with per-entry TTLs. Expired entries
// are dropped lazily on read and swept opportunistically on write.
type TTLCache[K comparable, V any] struct {
	mu     sync.RWMutex
	items  map[K]cacheEntry[V]
	writes int
}

// sweepEvery bounds how much garbage can accumulate between sweeps.
const sweepEvery = 256

// NewTTLCache constructs a new TTLCache instance.
func NewTTLCache[K comparable, V any]() *TTLCache[K, V] {
	return &TTLCache[K, V]{items: make(map[K]cacheEntry[V])}
}

// Get returns a cached value if it exists and has not expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	now := time.Now().UnixNano()
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if entry.expired(now) {
		c.mu.Lock()
		if cur, ok := c.items[key]; ok && cur.expired(now) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return entry.value, true
}

// Set stores a value with the provided TTL. A non-positive TTL stores
// the value without expiry.
func (c *TTLCache[K, V]) Set(key K, value V, ttl time.Duration) {
	if c == nil {
		return
	}
	var deadline int64
	if ttl > 0 {
		deadline = time.Now().Add(ttl).UnixNano()
	}
	c.mu.Lock()
	c.items[key] = cacheEntry[V]{value: value, deadline: deadline}
	c.writes++
	if c.writes >= sweepEvery {
		c.writes = 0
		now := time.Now().UnixNano()
		for k, e := range c.items {
			if e.expired(now) {
				delete(c.items, k)
			}
		}
	}
	c.mu.Unlock()
}

// Delete removes a cached entry.
func (c *TTLCache[K, V]) Delete(key K) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// NoopCache always returns cache misses and ignores writes.
type NoopCache[K comparable, V any] struct{}

// Get always returns a miss.
func (NoopCache[K, V]) Get(key K) (V, bool) {
	var zero V
	return zero, false
}

// Set is a no-op.
func (NoopCache[K, V]) Set(key K, value V, ttl time.Duration) {}

// Delete is a no-op.
func (NoopCache[K, V]) Delete(key K) {}
