// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the domain metrics of the feed service:
//   - Feed pipeline outcomes and render duration
//   - Feed cache lookups and store failures
//   - Content API requests, outcomes and latency
//   - Cache warm runs
//
// HTTP request metrics live next to the HTTP middleware in internal/handler/http.
// All metrics are registered with the Prometheus default registry via promauto
// and exposed on the /metrics endpoint.
//
// Example usage:
//
//	start := time.Now()
//	body, err := renderer.Render(articles, section)
//	metrics.RecordFeedRender(time.Since(start))
package metrics
