// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamsite_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "streamsite_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AdminLoginsTotal counts admin login attempts by outcome.
	AdminLoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamsite_admin_logins_total",
		Help: "Total admin login attempts by outcome",
	}, []string{"outcome"})

	// FeaturedStreamChanges counts writes that moved the featured flag.
	FeaturedStreamChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamsite_featured_stream_changes_total",
		Help: "Total number of times a stream became featured",
	})

	// CacheLookups counts cache-aside lookups by cache name and result (hit or miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamsite_cache_lookups_total",
		Help: "Total cache lookups by cache and result",
	}, []string{"cache", "result"})

	// TwitchRequests counts Helix API calls by endpoint and outcome.
	TwitchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamsite_twitch_requests_total",
		Help: "Total Twitch Helix API requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// Outcome maps an error to the "ok"/"error" label used by the counters above.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
