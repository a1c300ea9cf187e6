package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/agro-group/contact-api/config"
	"github.com/redis/go-redis/v9"
)

// RedisStore is the durable counter store for multi-instance deployments.
type RedisStore struct {
	client *redis.Client
}

// NewRedisClient connects to Redis from configuration and verifies the
// connection before returning.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: connection failed: %w", err)
	}

	return client, nil
}

// NewRedisStore wraps an established Redis client as a CounterStore.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the current counter for key, or 0 when absent or expired.
func (s *RedisStore) Get(ctx context.Context, key string) (int, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("redis: counter %q is not an integer: %w", key, err)
	}
	return count, nil
}

// Put stores the counter with the window as its TTL.
func (s *RedisStore) Put(ctx context.Context, key string, count int, ttl time.Duration) error {
	return s.client.Set(ctx, key, strconv.Itoa(count), ttl).Err()
}

// Ping reports counter store health for the healthcheck endpoint.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
