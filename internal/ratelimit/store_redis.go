package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "seacrew:ratelimit:"

// RedisStore is a fixed-window Store shared across replicas. The window is a
// counter with a TTL; the first increment arms the expiry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed rate limit store.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		panic("ratelimit.NewRedisStore: client is required")
	}
	return &RedisStore{client: client}
}

// Allow increments the window counter for key and compares it to the limit.
func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	redisKey := redisKeyPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, window)
	ttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("ratelimit: redis window update: %w", err)
	}

	count := int(incr.Val())
	resetAt := time.Now().Add(window)
	if d := ttl.Val(); d > 0 {
		resetAt = time.Now().Add(d)
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return &Result{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
