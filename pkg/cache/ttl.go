package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a thread-safe cache whose entries expire a fixed duration after
// insertion. Staleness is checked lazily at Get; expired entries occupy memory
// until they are read, overwritten, or removed.
type TTLCache[K comparable, V any] struct {
	ttl   time.Duration
	mu    sync.Mutex
	items map[K]entry[V]
	now   func() time.Time
}

// New creates a TTL cache with the given default entry lifetime.
// The TTL must not be negative, otherwise it panics.
func New[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	if ttl < 0 {
		panic("cache: TTL must not be negative")
	}
	return &TTLCache[K, V]{
		ttl:   ttl,
		items: make(map[K]entry[V]),
		now:   time.Now,
	}
}

// SetClock replaces the time source used for expiry checks.
// Intended for tests; nil clocks are ignored.
func (c *TTLCache[K, V]) SetClock(now func() time.Time) {
	if now == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Get retrieves a value if it is present and not yet expired.
// An expired entry is removed and reported as absent.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.items, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores a value under the default TTL, replacing any existing entry.
// The expiry deadline is always reset, even when the value is unchanged.
func (c *TTLCache[K, V]) Put(key K, value V) {
	c.PutTTL(key, value, c.ttl)
}

// PutTTL stores a value with an explicit lifetime, overriding the default.
// Negative lifetimes are treated as zero (immediately stale).
func (c *TTLCache[K, V]) PutTTL(key K, value V, ttl time.Duration) {
	if ttl < 0 {
		ttl = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[V]{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
}

// Remove deletes an entry regardless of its expiry state.
// Returns the removed value and true if a live entry existed.
func (c *TTLCache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	delete(c.items, key)
	if !c.now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Len returns the number of entries that have not yet expired.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for _, e := range c.items {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

// Clear removes all entries.
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]entry[V])
}
