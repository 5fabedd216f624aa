package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"guardian-rss/internal/repository"
)

// MemoryStoreConfig holds configuration for MemoryStore.
type MemoryStoreConfig struct {
	// MaxKeys bounds the number of cached feeds. When full, the entry closest
	// to expiry is evicted to make room.
	// Default: 1000
	MaxKeys int

	// Now provides the current time for testing.
	// Default: time.Now
	Now func() time.Time
}

// DefaultMemoryStoreConfig returns the default configuration.
func DefaultMemoryStoreConfig() MemoryStoreConfig {
	return MemoryStoreConfig{
		MaxKeys: 1000,
		Now:     time.Now,
	}
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is a thread-safe in-process repository.FeedCacheStore.
// Expiry is checked lazily on Get and eagerly by PurgeExpired.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	maxKeys int
	now     func() time.Time
}

var _ repository.FeedCacheStore = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory store with the given configuration.
func NewMemoryStore(cfg MemoryStoreConfig) *MemoryStore {
	if cfg.MaxKeys <= 0 {
		cfg.MaxKeys = 1000
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		maxKeys: cfg.MaxKeys,
		now:     cfg.Now,
	}
}

// Get returns a copy of the live value stored under key, or repository.ErrCacheMiss.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || !s.now().Before(entry.expiresAt) {
		return nil, repository.ErrCacheMiss
	}

	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

// Set stores a copy of value under key, replacing any previous entry.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("memory store: %w", repository.ErrInvalidTTL)
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxKeys {
		s.evictLocked()
	}
	s.entries[key] = memoryEntry{value: stored, expiresAt: s.now().Add(ttl)}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// PurgeExpired removes every expired entry and returns how many were removed.
func (s *MemoryStore) PurgeExpired(_ context.Context) (int64, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	for key, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, key)
			purged++
		}
	}
	return purged, nil
}

// evictLocked drops the entry that expires first. Caller must hold s.mu.
func (s *MemoryStore) evictLocked() {
	var (
		victim string
		oldest time.Time
		found  bool
	)
	for key, entry := range s.entries {
		if !found || entry.expiresAt.Before(oldest) {
			victim, oldest, found = key, entry.expiresAt, true
		}
	}
	if found {
		delete(s.entries, victim)
	}
}
