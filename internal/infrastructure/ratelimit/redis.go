package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/productscraper/backend/internal/domain"
)

const keyPrefix = "ratelimit:"

// RedisStore counts requests per key in fixed windows shared by every instance
type RedisStore struct {
	client      *redis.Client
	maxRequests int64
	window      time.Duration
}

var _ domain.RateLimitStore = (*RedisStore)(nil)

// NewRedisClient parses a redis:// URL and creates a client
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	return redis.NewClient(opts), nil
}

// NewRedisStore creates a store allowing maxRequests per window for each key
func NewRedisStore(client *redis.Client, maxRequests int, window time.Duration) *RedisStore {
	if maxRequests <= 0 {
		maxRequests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisStore{
		client:      client,
		maxRequests: int64(maxRequests),
		window:      window,
	}
}

// Allow increments the counter for key inside one MULTI/EXEC.
// EXPIRE NX runs on every call, so a key that lost its TTL gets one back.
func (s *RedisStore) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := keyPrefix + key

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, s.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrRateLimitStoreUnavailable, err)
	}

	return incr.Val() <= s.maxRequests, nil
}

// Ping checks the connection
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
