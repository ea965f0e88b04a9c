package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	PipelineLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "marketlens",
			Subsystem: "pipeline",
			Name:      "latency_seconds",
			Help:      "Latency of indicator pipelines",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"pipeline"},
	)

	PipelineErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketlens",
			Subsystem: "pipeline",
			Name:      "errors_total",
			Help:      "Errors by pipeline and kind",
		},
		[]string{"pipeline", "kind"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(PipelineLatency, PipelineErrors)
	})
}
