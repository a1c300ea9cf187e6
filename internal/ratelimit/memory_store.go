package ratelimit

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is an in-process counter store for single-instance
// deployments. Counters do not survive restarts and are not shared
// between replicas.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates an in-memory counter store. Expired counters
// are purged every ten minutes.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

// Get returns the current counter for key, or 0 when absent or expired.
func (s *MemoryStore) Get(_ context.Context, key string) (int, error) {
	val, found := s.cache.Get(key)
	if !found {
		return 0, nil
	}
	count, ok := val.(int)
	if !ok {
		return 0, nil
	}
	return count, nil
}

// Put stores the counter with the window as its TTL.
func (s *MemoryStore) Put(_ context.Context, key string, count int, ttl time.Duration) error {
	s.cache.Set(key, count, ttl)
	return nil
}
