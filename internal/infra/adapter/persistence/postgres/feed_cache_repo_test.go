package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"guardian-rss/internal/infra/adapter/persistence/postgres"
	"guardian-rss/internal/repository"
	"guardian-rss/internal/resilience/circuitbreaker"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) (*postgres.FeedCacheRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return postgres.NewFeedCacheRepo(db, postgres.WithClock(func() time.Time { return fixedNow })), mock
}

/* ──────────────────────────────── 1. Get ──────────────────────────────── */

func TestFeedCacheRepo_Get(t *testing.T) {
	repo, mock := newRepo(t)

	want := []byte(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"></rss>`)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT body`)).
		WithArgs("guardian_feed_world", fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(want))

	got, err := repo.Get(context.Background(), "guardian_feed_world")
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFeedCacheRepo_Get_MissOrExpired(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM feed_cache`)).
		WithArgs("guardian_feed_sport", fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	_, err := repo.Get(context.Background(), "guardian_feed_sport")
	if !errors.Is(err, repository.ErrCacheMiss) {
		t.Fatalf("want ErrCacheMiss, got %v", err)
	}
}

func TestFeedCacheRepo_Get_QueryError(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`FROM feed_cache`).WillReturnError(errors.New("connection reset"))

	_, err := repo.Get(context.Background(), "guardian_feed_world")
	if err == nil || errors.Is(err, repository.ErrCacheMiss) {
		t.Fatalf("want wrapped query error, got %v", err)
	}
}

/* ──────────────────────────────── 2. Set ──────────────────────────────── */

func TestFeedCacheRepo_Set_Upsert(t *testing.T) {
	repo, mock := newRepo(t)

	body := []byte("<rss/>")
	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (cache_key) DO UPDATE`)).
		WithArgs("guardian_feed_world", body, fixedNow.Add(10*time.Minute)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Set(context.Background(), "guardian_feed_world", body, 10*time.Minute); err != nil {
		t.Fatalf("Set err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFeedCacheRepo_Set_InvalidTTL(t *testing.T) {
	repo, _ := newRepo(t)

	err := repo.Set(context.Background(), "k", []byte("v"), 0)
	if !errors.Is(err, repository.ErrInvalidTTL) {
		t.Fatalf("want ErrInvalidTTL, got %v", err)
	}
}

/* ──────────────────────────────── 3. Delete / PurgeExpired ──────────────────────────────── */

func TestFeedCacheRepo_Delete(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM feed_cache WHERE cache_key = $1`)).
		WithArgs("guardian_feed_world").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "guardian_feed_world"); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFeedCacheRepo_PurgeExpired(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM feed_cache WHERE expires_at <= $1`)).
		WithArgs(fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.PurgeExpired(context.Background())
	if err != nil {
		t.Fatalf("PurgeExpired err=%v", err)
	}
	if n != 4 {
		t.Fatalf("want 4 purged, got %d", n)
	}
}

/* ──────────────────────────────── 4. Circuit breaker ──────────────────────────────── */

func TestFeedCacheRepo_ThroughCircuitBreaker(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := postgres.NewFeedCacheRepo(circuitbreaker.NewDBCircuitBreaker(db))

	for i := 0; i < 5; i++ {
		mock.ExpectQuery(`FROM feed_cache`).WillReturnError(errors.New("connection refused"))
	}
	for i := 0; i < 5; i++ {
		if _, err := repo.Get(context.Background(), "guardian_feed_world"); err == nil {
			t.Fatalf("attempt %d: want error", i+1)
		}
	}

	// open circuit: the database is not touched
	if _, err := repo.Get(context.Background(), "guardian_feed_world"); err == nil {
		t.Fatal("want open-circuit error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
