package cache

import (
	"context"
	"errors"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// LayeredCache implements two-level cache (L1: Memory, L2: Redis).
// Values travel to Redis as msgpack. L2 failures degrade to L1-only behavior.
type LayeredCache[V any] struct {
	memCache   *MemoryCache[V]
	redisCache *RedisCache
	timeout    time.Duration
	onError    func(op string, err error)
}

// NewLayeredCache creates a layered cache on top of an existing memory cache.
func NewLayeredCache[V any](memCache *MemoryCache[V], redisCache *RedisCache, opts ...LayeredOption) *LayeredCache[V] {
	cfg := &LayeredConfig{
		L2Timeout: 500 * time.Millisecond,
		OnError:   func(string, error) {},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &LayeredCache[V]{
		memCache:   memCache,
		redisCache: redisCache,
		timeout:    cfg.L2Timeout,
		onError:    cfg.OnError,
	}
}

func (lc *LayeredCache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) {
	lc.memCache.Set(ctx, key, value, ttl)

	data, err := msgpack.Marshal(value)
	if err != nil {
		lc.onError("encode", err)
		return
	}

	rctx, cancel := context.WithTimeout(ctx, lc.timeout)
	defer cancel()
	if err := lc.redisCache.SetBytes(rctx, key, data, ttl); err != nil {
		lc.onError("set", err)
	}
}

func (lc *LayeredCache[V]) Get(ctx context.Context, key string) (V, bool) {
	if v, ok := lc.memCache.Get(ctx, key); ok {
		return v, true
	}

	var zero V
	rctx, cancel := context.WithTimeout(ctx, lc.timeout)
	defer cancel()

	data, err := lc.redisCache.GetBytes(rctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			lc.onError("get", err)
		}
		return zero, false
	}

	var v V
	if err := msgpack.Unmarshal(data, &v); err != nil {
		lc.onError("decode", err)
		return zero, false
	}

	// Backfill L1 with the remaining Redis TTL.
	ttl, err := lc.redisCache.Client().PTTL(rctx, lc.redisCache.wrapKey(key)).Result()
	if err != nil || ttl < 0 {
		ttl = 0
	}
	lc.memCache.Set(ctx, key, v, ttl)
	return v, true
}

// Delete removes keys from both layers.
func (lc *LayeredCache[V]) Delete(ctx context.Context, keys ...string) error {
	lc.memCache.Delete(ctx, keys...)
	return lc.redisCache.Delete(ctx, keys...)
}
