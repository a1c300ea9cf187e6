package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agro-group/contact-api/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-test CounterStore that records the keys and TTLs it
// was given.
type fakeStore struct {
	counters map[string]int
	lastTTL  time.Duration
	getErr   error
	putErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{counters: make(map[string]int)}
}

func (s *fakeStore) Get(_ context.Context, key string) (int, error) {
	if s.getErr != nil {
		return 0, s.getErr
	}
	return s.counters[key], nil
}

func (s *fakeStore) Put(_ context.Context, key string, count int, ttl time.Duration) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.counters[key] = count
	s.lastTTL = ttl
	return nil
}

func TestLimiter_AllowsUpToMaxThenDenies(t *testing.T) {
	store := newFakeStore()
	limiter := ratelimit.New(store, 5, time.Hour)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		assert.True(t, limiter.Allow(ctx, "203.0.113.7"), "submission %d should be allowed", i)
	}

	assert.False(t, limiter.Allow(ctx, "203.0.113.7"), "6th submission within the window should be denied")
}

func TestLimiter_IdentitiesAreIndependent(t *testing.T) {
	store := newFakeStore()
	limiter := ratelimit.New(store, 5, time.Hour)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.True(t, limiter.Allow(ctx, "203.0.113.7"))
	}

	assert.False(t, limiter.Allow(ctx, "203.0.113.7"))
	assert.True(t, limiter.Allow(ctx, "198.51.100.2"), "a different identity has its own counter")
}

func TestLimiter_NilStoreAlwaysAllows(t *testing.T) {
	limiter := ratelimit.New(nil, 5, time.Hour)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		assert.True(t, limiter.Allow(ctx, "203.0.113.7"))
	}
}

func TestLimiter_StoreReadErrorAllows(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	limiter := ratelimit.New(store, 5, time.Hour)

	assert.True(t, limiter.Allow(context.Background(), "203.0.113.7"),
		"a broken counter store must not block submissions")
}

func TestLimiter_StoreWriteErrorStillAllows(t *testing.T) {
	store := newFakeStore()
	store.putErr = errors.New("connection refused")
	limiter := ratelimit.New(store, 5, time.Hour)

	assert.True(t, limiter.Allow(context.Background(), "203.0.113.7"))
}

func TestLimiter_UsesWindowAsTTLAndPrefixedKey(t *testing.T) {
	store := newFakeStore()
	limiter := ratelimit.New(store, 5, time.Hour)

	require.True(t, limiter.Allow(context.Background(), "203.0.113.7"))

	assert.Equal(t, time.Hour, store.lastTTL)
	assert.Equal(t, 1, store.counters["rl:contact:203.0.113.7"])
}

func TestMemoryStore_CountsAndExpires(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	ctx := context.Background()

	count, err := store.Get(ctx, "rl:contact:test")
	require.NoError(t, err)
	assert.Equal(t, 0, count, "absent counter reads as zero")

	require.NoError(t, store.Put(ctx, "rl:contact:test", 3, 50*time.Millisecond))

	count, err = store.Get(ctx, "rl:contact:test")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	time.Sleep(80 * time.Millisecond)

	count, err = store.Get(ctx, "rl:contact:test")
	require.NoError(t, err)
	assert.Equal(t, 0, count, "expired counter reads as zero")
}

func TestLimiter_WithMemoryStore(t *testing.T) {
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), 5, time.Hour)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.True(t, limiter.Allow(ctx, "203.0.113.7"))
	}
	assert.False(t, limiter.Allow(ctx, "203.0.113.7"))
}
