package db

import (
	"context"
	"database/sql"
	"fmt"
)

// feed_cache は TTL 付きのキャッシュ。TTL を超える永続化はしない
var migrations = map[Dialect][]string{
	Postgres: {
		`CREATE TABLE IF NOT EXISTS feed_cache (
    cache_key  TEXT PRIMARY KEY,
    body       BYTEA NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL
)`,
		// PurgeExpired の範囲削除用
		`CREATE INDEX IF NOT EXISTS idx_feed_cache_expires_at ON feed_cache(expires_at)`,
	},
	SQLite: {
		`CREATE TABLE IF NOT EXISTS feed_cache (
    cache_key  TEXT PRIMARY KEY,
    body       BLOB NOT NULL,
    expires_at INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_feed_cache_expires_at ON feed_cache(expires_at)`,
	},
}

// MigrateUp creates the feed cache schema. It is idempotent.
func MigrateUp(ctx context.Context, db *sql.DB, dialect Dialect) error {
	stmts, ok := migrations[dialect]
	if !ok {
		return fmt.Errorf("unsupported database dialect %q", string(dialect))
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", dialect, err)
		}
	}
	return nil
}
