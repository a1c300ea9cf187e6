package ratelimit

import (
	"context"
	"time"
)

// CounterStore is the ephemeral rate-limit ledger: get a counter by key,
// put it back with an expiry. The store owns expiration; the limiter
// never reads back an expired counter.
type CounterStore interface {
	Get(ctx context.Context, key string) (int, error)
	Put(ctx context.Context, key string, count int, ttl time.Duration) error
}
