package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exports cache and upstream metrics to Prometheus.
// It satisfies cache.Recorder and the aktools client's Metrics interface.
type Recorder struct {
	cacheEvents     *prometheus.CounterVec
	upstreamCalls   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	upstreamRows    *prometheus.HistogramVec
}

// New registers the recorder's collectors on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers on reg, letting tests use a private registry.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		cacheEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_cache_events_total",
				Help: "Cache lookups and evictions by cache and outcome",
			},
			[]string{"cache", "event"},
		),
		upstreamCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_upstream_requests_total",
				Help: "Requests sent to the market-data provider",
			},
			[]string{"operation", "status"},
		),
		upstreamLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketlens_upstream_duration_seconds",
				Help:    "Latency of market-data provider requests",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"operation"},
		),
		upstreamRows: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketlens_upstream_rows",
				Help:    "Rows returned per provider request",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) CacheHit(cache string) {
	r.cacheEvents.WithLabelValues(cache, "hit").Inc()
}

func (r *Recorder) CacheMiss(cache string) {
	r.cacheEvents.WithLabelValues(cache, "miss").Inc()
}

func (r *Recorder) CacheEviction(cache string) {
	r.cacheEvents.WithLabelValues(cache, "eviction").Inc()
}

// RecordUpstream records one provider round trip.
func (r *Recorder) RecordUpstream(op string, seconds float64, rows int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.upstreamCalls.WithLabelValues(op, status).Inc()
	r.upstreamLatency.WithLabelValues(op).Observe(seconds)
	if err == nil {
		r.upstreamRows.WithLabelValues(op).Observe(float64(rows))
	}
}
