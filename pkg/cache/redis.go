package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements a Redis-backed cache for shared deployments.
// The serve mode uses it so that multiple instances behind a load balancer
// reuse each other's reductions.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed cache connected to addr
// (host:port). The connection is verified with a ping before use.
func NewRedisCache(ctx context.Context, addr string) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

// Get retrieves a value from Redis. Transient failures are retried with
// backoff before surfacing as errors.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	var found bool

	err := RetryWithBackoff(ctx, func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		if err == redis.Nil {
			found = false
			return nil
		}
		if err != nil {
			return Retryable(err)
		}
		data = b
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, found, nil
}

// Set stores a value in Redis with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return RetryWithBackoff(ctx, func() error {
		if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
			return Retryable(err)
		}
		return nil
	})
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return RetryWithBackoff(ctx, func() error {
		if err := c.client.Del(ctx, key).Err(); err != nil {
			return Retryable(err)
		}
		return nil
	})
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
