// Package metrics provides Prometheus metrics for the valuation engine.
//
// Metrics categories:
//   - Cache: lookups by namespace and result, writes by namespace and result
//   - Adapters: external calls by adapter and outcome
//   - Resolutions: outcomes by price source, end-to-end latency
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup results
const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheNoData = "nodata"
)

// Adapter call outcomes
const (
	OutcomeSuccess = "success"
	OutcomeNoData  = "nodata"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

var (
	// CacheLookupsTotal counts cache reads by namespace and result.
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "longbox_cache_lookups_total",
			Help: "Total number of cache lookups",
		},
		[]string{"namespace", "result"},
	)

	// CacheWritesTotal counts fire-and-forget cache writes by namespace and result.
	CacheWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "longbox_cache_writes_total",
			Help: "Total number of cache writes",
		},
		[]string{"namespace", "result"},
	)

	// AdapterCallsTotal counts external adapter calls by adapter and outcome.
	AdapterCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "longbox_adapter_calls_total",
			Help: "Total number of external adapter calls",
		},
		[]string{"adapter", "outcome"},
	)

	// ResolutionsTotal counts completed price resolutions by where the price came from.
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "longbox_price_resolutions_total",
			Help: "Total number of price resolutions by source",
		},
		[]string{"source"},
	)

	// ResolutionDuration tracks end-to-end price resolution latency.
	ResolutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "longbox_price_resolution_duration_seconds",
			Help:    "Duration of price resolutions in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)
)

// RecordCacheLookup records a cache read
func RecordCacheLookup(namespace, result string) {
	CacheLookupsTotal.WithLabelValues(namespace, result).Inc()
}

// RecordCacheWrite records the outcome of a cache write
func RecordCacheWrite(namespace string, err error) {
	result := OutcomeSuccess
	if err != nil {
		result = OutcomeError
	}
	CacheWritesTotal.WithLabelValues(namespace, result).Inc()
}

// RecordAdapterCall records one external adapter call
func RecordAdapterCall(adapter, outcome string) {
	AdapterCallsTotal.WithLabelValues(adapter, outcome).Inc()
}

// RecordResolution records a finished price resolution.
// An empty source is reported as "none".
func RecordResolution(source string, d time.Duration) {
	if source == "" {
		source = "none"
	}
	ResolutionsTotal.WithLabelValues(source).Inc()
	ResolutionDuration.WithLabelValues(source).Observe(d.Seconds())
}
