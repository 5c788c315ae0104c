package favorites

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes recorded by the cache.
const (
	OutcomeHit         = "hit"
	OutcomeRefreshed   = "refreshed"
	OutcomeStale       = "stale"
	OutcomeUnavailable = "unavailable"
	OutcomeNotFound    = "not_found"
)

// Upstream call results recorded by the cache.
const (
	UpstreamSuccess   = "success"
	UpstreamFailure   = "failure"
	UpstreamRejected  = "rejected"
	UpstreamNotFound  = "not_found"
	UpstreamThrottled = "throttled"
)

// MetricsRecorder records cache and upstream metrics.
// Tests inject a fake; production uses PrometheusMetrics.
type MetricsRecorder interface {
	// RecordLookup counts a GetFavorites call by outcome.
	RecordLookup(outcome string)

	// RecordUpstream counts an upstream attempt and its duration.
	// Rejected attempts report a zero duration.
	RecordUpstream(result string, duration time.Duration)

	// SetEntries reports the number of cached users.
	SetEntries(n int)
}

var (
	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "favorites_cache_lookups_total",
			Help: "Total number of favorites lookups by outcome",
		},
		[]string{"outcome"},
	)

	upstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "favorites_upstream_calls_total",
			Help: "Total number of upstream favorites fetches by result",
		},
		[]string{"result"},
	)

	upstreamCallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "favorites_upstream_call_duration_seconds",
			Help:    "Duration of upstream favorites fetches in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	cacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "favorites_cache_entries",
			Help: "Number of users with cached favorites",
		},
	)
)

// PrometheusMetrics implements MetricsRecorder using Prometheus metrics.
type PrometheusMetrics struct{}

// NewPrometheusMetrics returns the Prometheus-backed recorder.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{}
}

func (PrometheusMetrics) RecordLookup(outcome string) {
	cacheLookupsTotal.WithLabelValues(outcome).Inc()
}

func (PrometheusMetrics) RecordUpstream(result string, duration time.Duration) {
	upstreamCallsTotal.WithLabelValues(result).Inc()
	if result != UpstreamRejected {
		upstreamCallDuration.Observe(duration.Seconds())
	}
}

func (PrometheusMetrics) SetEntries(n int) {
	cacheEntries.Set(float64(n))
}

// NoopMetrics discards all metrics.
type NoopMetrics struct{}

func (NoopMetrics) RecordLookup(string)                  {}
func (NoopMetrics) RecordUpstream(string, time.Duration) {}
func (NoopMetrics) SetEntries(int)                       {}
