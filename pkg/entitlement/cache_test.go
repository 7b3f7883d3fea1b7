package entitlement_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekit/pkg/entitlement"
)

func testSnapshot(merchantID string) *entitlement.Snapshot {
	return &entitlement.Snapshot{
		MerchantID: merchantID,
		State:      entitlement.MerchantState{MerchantID: merchantID, ActivePlanID: "starter"},
		Plans: map[string][]entitlement.FeatureEntitlement{
			"starter": {{Key: entitlement.FeatureProductListings, Enabled: true, Limit: 10}},
		},
		BuiltAt: testNow,
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var mu sync.Mutex
	now := testNow
	c := entitlement.NewMemoryCache(time.Second)
	c.SetClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	})

	_, ok := c.Get(ctx, "m1")
	assert.False(t, ok)

	snap := testSnapshot("m1")
	require.NoError(t, c.Put(ctx, "m1", snap))

	got, ok := c.Get(ctx, "m1")
	require.True(t, ok)
	assert.Equal(t, snap, got)

	// After the TTL elapses the entry reads as absent, forcing a rebuild.
	mu.Lock()
	now = testNow.Add(time.Second)
	mu.Unlock()

	_, ok = c.Get(ctx, "m1")
	assert.False(t, ok)
}

func TestMemoryCache_Invalidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := entitlement.NewMemoryCache(time.Hour)
	require.NoError(t, c.Put(ctx, "m1", testSnapshot("m1")))
	require.NoError(t, c.Invalidate(ctx, "m1"))

	_, ok := c.Get(ctx, "m1")
	assert.False(t, ok)

	// Invalidating an absent entry is a no-op.
	assert.NoError(t, c.Invalidate(ctx, "m1"))
}

func TestMemoryCache_LastPutWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := entitlement.NewMemoryCache(time.Hour)

	first := testSnapshot("m1")
	second := testSnapshot("m1")
	second.State.ActivePlanID = "growth"

	require.NoError(t, c.Put(ctx, "m1", first))
	require.NoError(t, c.Put(ctx, "m1", second))

	got, ok := c.Get(ctx, "m1")
	require.True(t, ok)
	assert.Equal(t, "growth", got.State.ActivePlanID)
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := entitlement.NewMemoryCache(time.Hour)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 200 {
				c.Put(ctx, "m1", testSnapshot("m1"))
				if snap, ok := c.Get(ctx, "m1"); ok {
					assert.Equal(t, "m1", snap.MerchantID)
				}
				if j%20 == 0 {
					c.Invalidate(ctx, "m1")
				}
			}
		}()
	}
	wg.Wait()
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var c entitlement.NoOpCache
	require.NoError(t, c.Put(ctx, "m1", testSnapshot("m1")))

	_, ok := c.Get(ctx, "m1")
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate(ctx, "m1"))
}
