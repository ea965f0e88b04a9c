package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type countingRecorder struct {
	mu                      sync.Mutex
	hits, misses, evictions int
}

func (r *countingRecorder) CacheHit(string)      { r.mu.Lock(); r.hits++; r.mu.Unlock() }
func (r *countingRecorder) CacheMiss(string)     { r.mu.Lock(); r.misses++; r.mu.Unlock() }
func (r *countingRecorder) CacheEviction(string) { r.mu.Lock(); r.evictions++; r.mu.Unlock() }

func TestMemoryCache_SetGetWithinTTL(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	c := NewMemoryCache[string](WithClock(clock.Now))

	c.Set(ctx, "k", "v", time.Minute)
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	clock.Advance(59 * time.Second)
	_, ok = c.Get(ctx, "k")
	assert.True(t, ok)
}

func TestMemoryCache_ExpiredIsMissAndPurged(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	c := NewMemoryCache[int](WithClock(clock.Now))

	c.Set(ctx, "k", 1, time.Minute)
	clock.Advance(time.Minute + time.Second)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, uint64(1), c.Stats().Expired)
}

func TestMemoryCache_NoTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	c := NewMemoryCache[int](WithClock(clock.Now))

	c.Set(ctx, "k", 7, 0)
	clock.Advance(365 * 24 * time.Hour)

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, 7, got)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	rec := &countingRecorder{}
	c := NewMemoryCache[int](WithMemoryMaxSize(3), WithRecorder(rec))

	for i := 0; i < 4; i++ {
		c.Set(ctx, fmt.Sprintf("k%d", i), i, time.Hour)
	}

	assert.Equal(t, 3, c.Len())
	_, ok := c.Get(ctx, "k0")
	assert.False(t, ok, "k0 should be evicted")
	for _, k := range []string{"k1", "k2", "k3"} {
		_, ok := c.Get(ctx, k)
		assert.True(t, ok, k)
	}
	assert.Equal(t, 1, rec.evictions)
	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestMemoryCache_GetProtectsFromEviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[int](WithMemoryMaxSize(3))

	c.Set(ctx, "a", 1, time.Hour)
	c.Set(ctx, "b", 2, time.Hour)
	c.Set(ctx, "c", 3, time.Hour)

	_, ok := c.Get(ctx, "a")
	require.True(t, ok)

	c.Set(ctx, "d", 4, time.Hour)

	_, ok = c.Get(ctx, "a")
	assert.True(t, ok)
	_, ok = c.Get(ctx, "b")
	assert.False(t, ok, "b became least recently used")
}

func TestMemoryCache_SetRefreshesPositionAndValue(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[int](WithMemoryMaxSize(2))

	c.Set(ctx, "a", 1, time.Hour)
	c.Set(ctx, "b", 2, time.Hour)
	c.Set(ctx, "a", 10, time.Hour)
	c.Set(ctx, "c", 3, time.Hour)

	assert.Equal(t, []string{"c", "a"}, recency(c))
	got, _ := c.Get(ctx, "a")
	assert.Equal(t, 10, got)
}

func TestMemoryCache_SweepExpired(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	c := NewMemoryCache[int](WithClock(clock.Now))

	c.Set(ctx, "short", 1, time.Second)
	c.Set(ctx, "long", 2, time.Hour)
	c.Set(ctx, "forever", 3, 0)
	clock.Advance(2 * time.Second)

	assert.Equal(t, 1, c.SweepExpired())
	assert.Equal(t, 2, c.Len())
	assert.ElementsMatch(t, []string{"long", "forever"}, recency(c))
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[int]()

	c.Set(ctx, "a", 1, 0)
	c.Set(ctx, "b", 2, 0)
	c.Delete(ctx, "a", "missing")

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[int](WithMemoryMaxSize(16))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*31+i)%40)
				c.Set(ctx, key, i, time.Minute)
				c.Get(ctx, key)
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 16)
}

// recency lists keys from most to least recently used.
func recency[V any](c *MemoryCache[V]) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*memoryItem[V]).key)
	}
	return keys
}
