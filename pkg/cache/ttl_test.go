package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekit/pkg/cache"
)

// fakeClock is a manually advanced time source for deterministic expiry tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTTLCache_PutGet(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Put("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Put("a", 2)
	v, ok = c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v, "put replaces the existing value")
}

func TestTTLCache_Expiry(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := cache.New[string, string](time.Second)
	c.SetClock(clock.Now)

	c.Put("k", "v")

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	clock.Advance(999 * time.Millisecond)
	_, ok = c.Get("k")
	assert.True(t, ok, "entry is alive just before the deadline")

	clock.Advance(time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok, "entry is absent once the deadline is reached")

	// Re-inserting resets the deadline.
	c.Put("k", "v2")
	clock.Advance(500 * time.Millisecond)
	v, ok = c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestTTLCache_ZeroTTL(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](0)
	c.Put("k", 1)

	_, ok := c.Get("k")
	assert.False(t, ok, "zero TTL makes every lookup a miss")
}

func TestTTLCache_PutTTLOverride(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := cache.New[string, int](time.Second)
	c.SetClock(clock.Now)

	c.PutTTL("long", 1, time.Hour)
	clock.Advance(10 * time.Minute)

	v, ok := c.Get("long")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestTTLCache_Remove(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := cache.New[string, int](time.Second)
	c.SetClock(clock.Now)

	c.Put("k", 7)
	v, ok := c.Remove("k")
	require.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok = c.Get("k")
	assert.False(t, ok)

	_, ok = c.Remove("k")
	assert.False(t, ok, "removing an absent key reports false")

	c.Put("stale", 1)
	clock.Advance(2 * time.Second)
	_, ok = c.Remove("stale")
	assert.False(t, ok, "removing an expired entry reports false")
}

func TestTTLCache_LenAndClear(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := cache.New[string, int](time.Second)
	c.SetClock(clock.Now)

	c.Put("a", 1)
	c.Put("b", 2)
	c.PutTTL("c", 3, time.Hour)
	assert.Equal(t, 3, c.Len())

	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, c.Len(), "expired entries are not counted")

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("c")
	assert.False(t, ok)
}

func TestTTLCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := cache.New[int, int](time.Minute)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := range 200 {
				key := (base*200 + j) % 50
				c.Put(key, j)
				c.Get(key)
				if j%10 == 0 {
					c.Remove(key)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 50)
}

func TestNew_NegativeTTLPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		cache.New[string, int](-time.Second)
	})
}
