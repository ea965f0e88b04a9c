package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Store is the minimal key/value contract Memo depends on.
// A miss is reported through the boolean, never as an error.
type Store[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Set(ctx context.Context, key string, value V, ttl time.Duration)
}

// Recorder receives cache events. Implemented by pkg/metrics.
type Recorder interface {
	CacheHit(cache string)
	CacheMiss(cache string)
	CacheEviction(cache string)
}

// Stats tracks cache performance counters.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Expired   uint64 `json:"expired"`
}

type nopRecorder struct{}

func (nopRecorder) CacheHit(string)      {}
func (nopRecorder) CacheMiss(string)     {}
func (nopRecorder) CacheEviction(string) {}
