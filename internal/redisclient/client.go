package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetIdempotencyKey caches a processed (key, event type) pair with the
// response status that was returned, expiring after ttl. The durable
// record lives in Postgres; this is only the fast path.
func (c *Client) SetIdempotencyKey(ctx context.Context, key, eventType string, responseStatus int, ttl time.Duration) error {
	return c.rdb.Set(ctx, idempotencyKey(key, eventType), responseStatus, ttl).Err()
}

// CheckIdempotencyKey returns the cached response status for a
// (key, event type) pair, or found=false on a cache miss.
func (c *Client) CheckIdempotencyKey(ctx context.Context, key, eventType string) (responseStatus int, found bool, err error) {
	status, err := c.rdb.Get(ctx, idempotencyKey(key, eventType)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	return status, true, nil
}

// AcquireLock acquires a distributed lock
func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("lock:%s", lockKey), "1", ttl).Result()
}

// ReleaseLock releases a distributed lock
func (c *Client) ReleaseLock(ctx context.Context, lockKey string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("lock:%s", lockKey)).Err()
}

func idempotencyKey(key, eventType string) string {
	return fmt.Sprintf("idempotency:%s:%s", eventType, key)
}
