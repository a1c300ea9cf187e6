// Package ratelimit implements fixed-window submission counting per
// client identity, backed by an optional external counter store.
package ratelimit

import (
	"context"
	"time"

	"github.com/agro-group/contact-api/pkg/logger"
	"github.com/agro-group/contact-api/pkg/metrics"
	"go.uber.org/zap"
)

const keyPrefix = "rl:contact:"

// Limiter counts submissions per identity within a fixed window.
type Limiter struct {
	store  CounterStore
	max    int
	window time.Duration
}

// New creates a limiter over the given counter store. A nil store means
// no rate limiting: every submission is allowed (operators without a
// store accept unlimited submissions).
func New(store CounterStore, max int, window time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		max:    max,
		window: window,
	}
}

// Allow reports whether another submission from identity may proceed,
// incrementing its counter when it may. Store failures allow the request:
// a broken counter store must not take the contact form down.
//
// The read and the increment are not atomic, so concurrent submissions
// from one identity can overshoot the cap by a small bounded amount
// within a window. Accepted approximation.
func (l *Limiter) Allow(ctx context.Context, identity string) bool {
	if l.store == nil {
		return true
	}

	key := keyPrefix + identity

	count, err := l.store.Get(ctx, key)
	if err != nil {
		logger.Warn("Counter store read failed, allowing submission",
			zap.String("identity", identity), zap.Error(err))
		metrics.RateLimitDecisions.WithLabelValues("store_error").Inc()
		return true
	}

	if count >= l.max {
		metrics.RateLimitDecisions.WithLabelValues("denied").Inc()
		return false
	}

	if err := l.store.Put(ctx, key, count+1, l.window); err != nil {
		logger.Warn("Counter store write failed",
			zap.String("identity", identity), zap.Error(err))
	}

	metrics.RateLimitDecisions.WithLabelValues("allowed").Inc()
	return true
}
