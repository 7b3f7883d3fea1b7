package entitlement

import (
	"context"
	"time"

	"github.com/dmitrymomot/gatekit/pkg/cache"
)

// Cache stores resolved entitlement snapshots per merchant. Implementations
// must be safe under concurrent access; last Put wins. A Get failure is
// indistinguishable from a miss: the evaluator rebuilds from source rather
// than failing the decision.
type Cache interface {
	// Get returns the cached snapshot, or false when absent or expired.
	Get(ctx context.Context, merchantID string) (*Snapshot, bool)

	// Put stores a snapshot under the cache's TTL.
	Put(ctx context.Context, merchantID string, snapshot *Snapshot) error

	// Invalidate drops the merchant's entry. The subscription lifecycle
	// component must call this on every plan or downgrade change.
	Invalidate(ctx context.Context, merchantID string) error
}

// NoOpCache disables snapshot caching; every check rebuilds from source.
type NoOpCache struct{}

func (NoOpCache) Get(context.Context, string) (*Snapshot, bool) { return nil, false }
func (NoOpCache) Put(context.Context, string, *Snapshot) error  { return nil }
func (NoOpCache) Invalidate(context.Context, string) error      { return nil }

// MemoryCache implements Cache over a generic TTL cache. Snapshots are
// treated as immutable after construction, so sharing pointers is safe.
type MemoryCache struct {
	entries *cache.TTLCache[string, *Snapshot]
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache returns an in-process snapshot cache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{entries: cache.New[string, *Snapshot](ttl)}
}

// SetClock replaces the expiry time source. Intended for tests.
func (c *MemoryCache) SetClock(now func() time.Time) {
	c.entries.SetClock(now)
}

func (c *MemoryCache) Get(_ context.Context, merchantID string) (*Snapshot, bool) {
	return c.entries.Get(merchantID)
}

func (c *MemoryCache) Put(_ context.Context, merchantID string, snapshot *Snapshot) error {
	c.entries.Put(merchantID, snapshot)
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, merchantID string) error {
	c.entries.Remove(merchantID)
	return nil
}
