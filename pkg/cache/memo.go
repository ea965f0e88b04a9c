package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// Call identifies one memoized invocation.
type Call struct {
	Op     string
	Args   []any
	Kwargs map[string]any
}

// Key returns the cache key for c.
func (c Call) Key() string {
	return Key(c.Op, c.Args, c.Kwargs)
}

// Memo caches successful fetch results in a Store.
//
// Errors are returned unchanged and never cached. With single-flight enabled
// (the default) concurrent misses on one key share a single fetch; the store
// lock is never held while fetch runs. A shared fetch is detached from the
// cancellation of whichever caller started it, so one caller giving up never
// fails the others.
type Memo[V any] struct {
	store        Store[V]
	ttl          time.Duration
	fetchTimeout time.Duration
	group        *singleflight.Group
}

// NewMemo wraps store.
func NewMemo[V any](store Store[V], opts ...MemoOption) *Memo[V] {
	cfg := &MemoConfig{
		TTL:          DefaultMemoTTL,
		SingleFlight: true,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	m := &Memo[V]{store: store, ttl: cfg.TTL, fetchTimeout: cfg.FetchTimeout}
	if cfg.SingleFlight {
		m.group = &singleflight.Group{}
	}
	return m
}

// TTL returns the expiry applied to stored results.
func (m *Memo[V]) TTL() time.Duration {
	return m.ttl
}

// Do returns the cached value for call or runs fetch and caches its result.
func (m *Memo[V]) Do(ctx context.Context, call Call, fetch func(ctx context.Context) (V, error)) (V, error) {
	key := call.Key()
	if v, ok := m.store.Get(ctx, key); ok {
		return v, nil
	}

	if m.group == nil {
		return m.fetchAndStore(ctx, key, fetch)
	}

	ch := m.group.DoChan(key, func() (interface{}, error) {
		fctx := context.WithoutCancel(ctx)
		if m.fetchTimeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(fctx, m.fetchTimeout)
			defer cancel()
		}
		// Another flight may have filled the key while we waited for the group.
		if v, ok := m.store.Get(fctx, key); ok {
			return v, nil
		}
		return m.fetchAndStore(fctx, key, fetch)
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil
	}
}

func (m *Memo[V]) fetchAndStore(ctx context.Context, key string, fetch func(ctx context.Context) (V, error)) (V, error) {
	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	m.store.Set(ctx, key, v, m.ttl)
	return v, nil
}
