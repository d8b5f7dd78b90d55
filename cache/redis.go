// Package cache provides an optional Redis-backed response cache.
// When Redis is unreachable the cache is simply absent and every read
// falls through to the store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client for JSON value caching.
type Client struct {
	client *redis.Client
}

// New creates a Redis cache client. Returns nil when the connection
// cannot be established; callers treat a nil client as "no cache".
func New(host, port, password string) *Client {
	addr := fmt.Sprintf("%s:%s", host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0, // use default DB
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Failed to connect to Redis at %s: %v", addr, err)
		return nil
	}

	log.Printf("✅ Connected to Redis at %s", addr)
	return &Client{client: client}
}

// Set stores a JSON-encoded value with expiration.
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("cache not initialized")
	}

	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, jsonBytes, expiration).Err()
}

// Get retrieves a JSON-encoded value into dest. Returns an error on
// miss; callers treat any error as a miss.
func (c *Client) Get(ctx context.Context, key string, dest interface{}) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("cache not initialized")
	}

	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Delete removes a key.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("cache not initialized")
	}
	return c.client.Del(ctx, key).Err()
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
