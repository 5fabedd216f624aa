// Package cache provides the feed cache gateway and the in-process cache store.
//
// The Gateway sits between the feed pipeline and a repository.FeedCacheStore.
// It never surfaces store failures: a failed lookup is a miss and a failed
// write is logged and dropped, so the cache can only make requests faster.
//
// Stores:
//   - MemoryStore: map guarded by a sync.RWMutex, lost on restart
//   - postgres.FeedCacheRepo / sqlite.FeedCacheRepo: shared across replicas
package cache
