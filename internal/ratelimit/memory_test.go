package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Enabled(t *testing.T) {
	assert.False(t, Options{}.Enabled())
	assert.False(t, Options{RPS: 1}.Enabled())
	assert.False(t, Options{Burst: 3}.Enabled())
	assert.True(t, Options{RPS: 1, Burst: 3}.Enabled())
}

func TestOptions_Window(t *testing.T) {
	assert.Equal(t, 5*time.Second, Options{RPS: 2, Burst: 10}.window())
}

func TestMemoryLimiter_BurstThenDeny(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A very slow refill so the test never races the bucket.
	l := NewMemoryLimiter(ctx, Options{RPS: 0.001, Burst: 3})

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should be allowed", i+1)
	}

	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok, "4th request should be denied")

	// Another key has its own bucket.
	ok, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLimiter_EvictIdle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewMemoryLimiter(ctx, Options{RPS: 1, Burst: 1})
	_, _ = l.Allow(ctx, "a")

	l.mu.Lock()
	l.visitors["a"].lastSeen = time.Now().Add(-time.Hour)
	l.mu.Unlock()

	l.evictIdle(time.Minute)

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.visitors)
}
