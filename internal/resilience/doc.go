// Package resilience provides fault tolerance patterns for the feed service.
//
// The package supports:
//   - Circuit breakers for the content API and the SQL cache stores
//   - Retry with exponential backoff and jitter for establishing database connections
//
// Calls to the content API are never retried. A failed fetch is reported to the
// caller as is and the breaker only decides whether the next call is attempted.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.GuardianAPIConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return client.Do(req)
//	})
//
//	err := retry.WithBackoff(ctx, retry.DBConfig(), func() error {
//	    return db.PingContext(ctx)
//	})
package resilience
