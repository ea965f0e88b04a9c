package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type memoryItem[V any] struct {
	key      string
	value    V
	expireAt time.Time // zero means no expiry
}

func (m *memoryItem[V]) isExpired(now time.Time) bool {
	return !m.expireAt.IsZero() && m.expireAt.Before(now)
}

// MemoryCache is a bounded LRU cache with per-entry TTL.
//
// Every operation takes the same mutex. Reads and writes both count as use.
// An expired entry found by Get is removed immediately; SweepExpired exists
// only to reclaim memory held by entries nobody asks for again.
type MemoryCache[V any] struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List // front is most recently used
	maxSize  int
	name     string
	now      func() time.Time
	recorder Recorder
	stats    Stats
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache[V any](opts ...MemoryOption) *MemoryCache[V] {
	cfg := &MemoryConfig{
		Name:    "memory",
		MaxSize: DefaultMaxSize,
		Clock:   time.Now,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	var rec Recorder = nopRecorder{}
	if cfg.Recorder != nil {
		rec = cfg.Recorder
	}

	return &MemoryCache[V]{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		maxSize:  cfg.MaxSize,
		name:     cfg.Name,
		now:      cfg.Clock,
		recorder: rec,
	}
}

// Set inserts or replaces key. A ttl <= 0 stores the value without expiry.
func (mc *MemoryCache[V]) Set(_ context.Context, key string, value V, ttl time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if el, ok := mc.items[key]; ok {
		mc.order.Remove(el)
		delete(mc.items, key)
	}

	item := &memoryItem[V]{key: key, value: value}
	if ttl > 0 {
		item.expireAt = mc.now().Add(ttl)
	}
	mc.items[key] = mc.order.PushFront(item)

	if mc.order.Len() > mc.maxSize {
		mc.evictLRU()
	}
}

// Get returns the value for key if present and not expired.
func (mc *MemoryCache[V]) Get(_ context.Context, key string) (V, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	var zero V
	el, ok := mc.items[key]
	if !ok {
		mc.miss()
		return zero, false
	}

	item := el.Value.(*memoryItem[V])
	if item.isExpired(mc.now()) {
		mc.order.Remove(el)
		delete(mc.items, key)
		mc.stats.Expired++
		mc.miss()
		return zero, false
	}

	mc.order.MoveToFront(el)
	mc.stats.Hits++
	mc.recorder.CacheHit(mc.name)
	return item.value, true
}

// Delete removes the given keys.
func (mc *MemoryCache[V]) Delete(_ context.Context, keys ...string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	for _, key := range keys {
		if el, ok := mc.items[key]; ok {
			mc.order.Remove(el)
			delete(mc.items, key)
		}
	}
}

// Clear drops every entry. Stats are kept.
func (mc *MemoryCache[V]) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.items = make(map[string]*list.Element)
	mc.order.Init()
}

// SweepExpired removes all expired entries and reports how many were dropped.
func (mc *MemoryCache[V]) SweepExpired() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := mc.now()
	removed := 0
	for el := mc.order.Back(); el != nil; {
		prev := el.Prev()
		item := el.Value.(*memoryItem[V])
		if item.isExpired(now) {
			mc.order.Remove(el)
			delete(mc.items, item.key)
			removed++
		}
		el = prev
	}
	mc.stats.Expired += uint64(removed)
	return removed
}

// Len reports the number of stored entries, expired ones included.
func (mc *MemoryCache[V]) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.order.Len()
}

// Stats returns a snapshot of the counters.
func (mc *MemoryCache[V]) Stats() Stats {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.stats
}

func (mc *MemoryCache[V]) miss() {
	mc.stats.Misses++
	mc.recorder.CacheMiss(mc.name)
}

func (mc *MemoryCache[V]) evictLRU() {
	el := mc.order.Back()
	if el == nil {
		return
	}
	mc.order.Remove(el)
	delete(mc.items, el.Value.(*memoryItem[V]).key)
	mc.stats.Evictions++
	mc.recorder.CacheEviction(mc.name)
}
