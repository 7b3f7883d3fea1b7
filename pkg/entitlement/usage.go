package entitlement

import (
	"context"
	"sync"
)

// UsageTracker reads the current usage count for a (merchant, feature) pair.
// The evaluator only reads; recording consumption is the metering pipeline's
// job. A missing counter reads as zero.
type UsageTracker interface {
	CurrentUsage(ctx context.Context, merchantID string, feature FeatureKey) (int64, error)
}

type usageKey struct {
	merchantID string
	feature    FeatureKey
}

// InMemUsageTracker is an in-memory UsageTracker with write helpers for tests
// and single-process metering.
type InMemUsageTracker struct {
	mu     sync.RWMutex
	counts map[usageKey]int64
}

// NewInMemUsageTracker returns an empty in-memory tracker.
func NewInMemUsageTracker() *InMemUsageTracker {
	return &InMemUsageTracker{counts: make(map[usageKey]int64)}
}

func (t *InMemUsageTracker) CurrentUsage(_ context.Context, merchantID string, feature FeatureKey) (int64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.counts[usageKey{merchantID, feature}], nil
}

// Set overwrites the counter for a (merchant, feature) pair.
func (t *InMemUsageTracker) Set(merchantID string, feature FeatureKey, value int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[usageKey{merchantID, feature}] = value
}

// Add increments the counter and returns the new value.
func (t *InMemUsageTracker) Add(merchantID string, feature FeatureKey, delta int64) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := usageKey{merchantID, feature}
	t.counts[key] += delta
	return t.counts[key]
}
