package repository

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by FeedCacheStore.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// ErrInvalidTTL is returned by FeedCacheStore.Set when ttl is not positive.
var ErrInvalidTTL = errors.New("cache ttl must be positive")

// FeedCacheStore is a generic expiring key/value store for rendered feeds.
// Set overwrites any existing entry under the same key.
type FeedCacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	PurgeExpired(ctx context.Context) (int64, error)
}
