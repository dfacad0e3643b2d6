package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*ResponseCache, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewResponseCache(client, time.Minute), mini
}

func TestResponseCacheRoundTrip(t *testing.T) {
	responses, _ := newTestCache(t)
	ctx := context.Background()

	_, ok := responses.Get(ctx, "summary:/api/v1/debts/summary?")
	assert.False(t, ok)

	responses.Set(ctx, "summary:/api/v1/debts/summary?", []byte(`{"total":10}`))
	body, ok := responses.Get(ctx, "summary:/api/v1/debts/summary?")
	require.True(t, ok)
	assert.Equal(t, `{"total":10}`, string(body))
}

func TestResponseCacheExpiry(t *testing.T) {
	responses, mini := newTestCache(t)
	ctx := context.Background()

	responses.Set(ctx, "summary:key", []byte(`{}`))
	mini.FastForward(2 * time.Minute)

	_, ok := responses.Get(ctx, "summary:key")
	assert.False(t, ok)
}

func TestNilCacheIsMissAndNoop(t *testing.T) {
	var responses *ResponseCache
	ctx := context.Background()

	responses.Set(ctx, "key", []byte(`{}`))
	_, ok := responses.Get(ctx, "key")
	assert.False(t, ok)
}
