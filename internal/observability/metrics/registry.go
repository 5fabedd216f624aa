package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feed pipeline metrics
var (
	// FeedRequestsTotal counts pipeline results by outcome
	// (served, cache_hit, rejected, not_found, api_error, empty_results,
	// client_error, configuration, unexpected).
	FeedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_requests_total",
			Help: "Total number of feed pipeline results by outcome",
		},
		[]string{"outcome"},
	)

	// FeedRenderDuration measures RSS rendering time in seconds
	FeedRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_render_duration_seconds",
			Help:    "Time taken to render an article list as RSS",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		},
	)

	// FeedWarmTotal counts warmed sections by status
	FeedWarmTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_warm_sections_total",
			Help: "Total number of sections refreshed by the cache warmer",
		},
		[]string{"status"},
	)
)

// Feed cache metrics
var (
	// FeedCacheLookupsTotal counts cache lookups by result (hit/miss)
	FeedCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_cache_lookups_total",
			Help: "Total number of feed cache lookups by result",
		},
		[]string{"result"},
	)

	// FeedCacheErrorsTotal counts cache store failures by operation (get/set/delete/purge)
	FeedCacheErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_cache_errors_total",
			Help: "Total number of feed cache store errors by operation",
		},
		[]string{"op"},
	)

	// FeedCachePurgedTotal counts expired entries removed by the janitor
	FeedCachePurgedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_cache_purged_total",
			Help: "Total number of expired feed cache entries purged",
		},
	)
)

// Content API metrics
var (
	// GuardianRequestsTotal counts content API calls by outcome
	GuardianRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_requests_total",
			Help: "Total number of content API requests by outcome",
		},
		[]string{"outcome"},
	)

	// GuardianRequestDuration measures content API latency in seconds
	GuardianRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "guardian_request_duration_seconds",
			Help:    "Content API request duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)
)
