package ratelimit

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})
	return client
}

func TestRedisLimiter_Allow(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	l := NewRedisLimiter(client, Options{RPS: 0.01, Burst: 5})

	for i := 0; i < 5; i++ {
		ok, err := l.Allow(ctx, "test-key")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should be allowed", i+1)
	}

	ok, err := l.Allow(ctx, "test-key")
	require.NoError(t, err)
	assert.False(t, ok, "6th request should be denied")

	ok, err = l.Allow(ctx, "other-key")
	require.NoError(t, err)
	assert.True(t, ok, "keys are limited independently")
}

func TestRedisLimiter_Health(t *testing.T) {
	client := setupTestRedis(t)
	assert.NoError(t, NewRedisLimiter(client, Options{RPS: 1, Burst: 1}).Health(context.Background()))
}
