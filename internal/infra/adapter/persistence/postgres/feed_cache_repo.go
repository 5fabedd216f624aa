// Package postgres implements the feed cache store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"guardian-rss/internal/repository"
)

// Querier is satisfied by *sql.DB and by circuitbreaker.DBCircuitBreaker.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// Option configures a FeedCacheRepo.
type Option func(*FeedCacheRepo)

// WithClock overrides the clock used to compute and compare expiry times.
func WithClock(now func() time.Time) Option {
	return func(r *FeedCacheRepo) { r.now = now }
}

type FeedCacheRepo struct {
	db  Querier
	now func() time.Time
}

func NewFeedCacheRepo(db Querier, opts ...Option) *FeedCacheRepo {
	repo := &FeedCacheRepo{db: db, now: time.Now}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

var _ repository.FeedCacheStore = (*FeedCacheRepo)(nil)

func (repo *FeedCacheRepo) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `
SELECT body
FROM feed_cache
WHERE cache_key = $1 AND expires_at > $2
LIMIT 1`
	rows, err := repo.db.QueryContext(ctx, query, key, repo.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("Get: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("Get: rows.Err: %w", err)
		}
		return nil, repository.ErrCacheMiss
	}

	var body []byte
	if err := rows.Scan(&body); err != nil {
		return nil, fmt.Errorf("Get: Scan: %w", err)
	}
	return body, nil
}

func (repo *FeedCacheRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("Set: %w", repository.ErrInvalidTTL)
	}

	const query = `
INSERT INTO feed_cache (cache_key, body, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (cache_key) DO UPDATE
SET body = EXCLUDED.body, expires_at = EXCLUDED.expires_at`
	expiresAt := repo.now().Add(ttl).UTC()
	if _, err := repo.db.ExecContext(ctx, query, key, value, expiresAt); err != nil {
		return fmt.Errorf("Set: ExecContext: %w", err)
	}
	return nil
}

func (repo *FeedCacheRepo) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM feed_cache WHERE cache_key = $1`
	if _, err := repo.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", err)
	}
	return nil
}

// PurgeExpired removes every expired row and returns how many were deleted.
func (repo *FeedCacheRepo) PurgeExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM feed_cache WHERE expires_at <= $1`
	res, err := repo.db.ExecContext(ctx, query, repo.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("PurgeExpired: ExecContext: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("PurgeExpired: RowsAffected: %w", err)
	}
	return n, nil
}
