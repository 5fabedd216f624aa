package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"guardian-rss/internal/observability/logging"
	"guardian-rss/internal/observability/metrics"
	"guardian-rss/internal/repository"
)

// Gateway adapts a repository.FeedCacheStore to the feed pipeline.
// Store errors are logged and counted but never returned.
type Gateway struct {
	store  repository.FeedCacheStore
	logger *slog.Logger
}

// NewGateway creates a Gateway over store. A nil logger uses slog.Default().
func NewGateway(store repository.FeedCacheStore, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{store: store, logger: logger}
}

// Lookup returns the cached value for key. Absent, expired and unreadable
// entries all report ok == false.
func (g *Gateway) Lookup(ctx context.Context, key string) ([]byte, bool) {
	value, err := g.store.Get(ctx, key)
	switch {
	case err == nil:
		metrics.RecordCacheLookup(true)
		return value, true
	case errors.Is(err, repository.ErrCacheMiss):
		metrics.RecordCacheLookup(false)
		return nil, false
	default:
		metrics.RecordCacheError("get")
		metrics.RecordCacheLookup(false)
		logging.WithRequestID(ctx, g.logger).Warn("feed cache lookup failed, treating as miss",
			slog.String("key", key),
			slog.Any("error", err))
		return nil, false
	}
}

// Store writes value under key with the given ttl, replacing any prior entry.
func (g *Gateway) Store(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := g.store.Set(ctx, key, value, ttl); err != nil {
		metrics.RecordCacheError("set")
		logging.WithRequestID(ctx, g.logger).Warn("feed cache write failed",
			slog.String("key", key),
			slog.Duration("ttl", ttl),
			slog.Any("error", err))
	}
}

// Evict removes the entry under key. A failed delete is logged and counted.
func (g *Gateway) Evict(ctx context.Context, key string) {
	if err := g.store.Delete(ctx, key); err != nil {
		metrics.RecordCacheError("delete")
		logging.WithRequestID(ctx, g.logger).Warn("feed cache eviction failed",
			slog.String("key", key),
			slog.Any("error", err))
	}
}

// Purge removes expired entries from the underlying store.
func (g *Gateway) Purge(ctx context.Context) (int64, error) {
	n, err := g.store.PurgeExpired(ctx)
	if err != nil {
		metrics.RecordCacheError("purge")
		return 0, err
	}
	metrics.RecordCachePurged(n)
	return n, nil
}
