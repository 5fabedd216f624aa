package metrics

import (
	"time"
)

// RecordFeedRequest records the outcome of one pipeline invocation.
func RecordFeedRequest(outcome string) {
	FeedRequestsTotal.WithLabelValues(outcome).Inc()
}

// RecordFeedRender records the time taken to render a feed.
func RecordFeedRender(duration time.Duration) {
	FeedRenderDuration.Observe(duration.Seconds())
}

// RecordFeedWarm records the result of warming a single section.
// Status should be either "success" or "failure".
func RecordFeedWarm(status string) {
	FeedWarmTotal.WithLabelValues(status).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "hit"
	if !hit {
		result = "miss"
	}
	FeedCacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordCacheError records a failed cache store operation.
// Operation should be one of "get", "set" or "purge".
func RecordCacheError(op string) {
	FeedCacheErrorsTotal.WithLabelValues(op).Inc()
}

// RecordCachePurged adds the number of expired entries removed by a purge.
func RecordCachePurged(count int64) {
	if count > 0 {
		FeedCachePurgedTotal.Add(float64(count))
	}
}

// RecordGuardianRequest records a content API call and its latency.
//
// Example:
//
//	start := time.Now()
//	resp, err := client.Do(req)
//	metrics.RecordGuardianRequest("ok", time.Since(start))
func RecordGuardianRequest(outcome string, duration time.Duration) {
	GuardianRequestsTotal.WithLabelValues(outcome).Inc()
	GuardianRequestDuration.Observe(duration.Seconds())
}
