package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResponseCache stores raw JSON response bodies keyed by request path and
// query, used by the summary endpoints where the upstream aggregation is
// expensive and the data changes slowly.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache wraps a Redis client with a fixed TTL.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	return &ResponseCache{client: client, ttl: ttl}
}

// Get returns the cached body for key, or (nil, false) on a miss. Redis
// outages count as misses so the proxy still works without the cache.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	body, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return body, true
}

// Set stores a body under key for the configured TTL.
func (c *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, key, body, c.ttl).Err()
}
