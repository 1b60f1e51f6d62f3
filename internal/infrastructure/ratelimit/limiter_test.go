package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicemonk/backend/internal/infrastructure/ratelimit"
)

func TestInMemoryLimiter_AllowsUpToLimit(t *testing.T) {
	limiter := ratelimit.NewInMemoryLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := limiter.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 3, d.Limit)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d, err := limiter.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
}

func TestInMemoryLimiter_KeysAreIndependent(t *testing.T) {
	limiter := ratelimit.NewInMemoryLimiter(1, time.Minute)
	ctx := context.Background()

	d, err := limiter.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = limiter.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	d, err = limiter.Allow(ctx, "198.51.100.9")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestInMemoryLimiter_WindowResets(t *testing.T) {
	limiter := ratelimit.NewInMemoryLimiter(1, 5*time.Millisecond)
	ctx := context.Background()

	d, err := limiter.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = limiter.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	time.Sleep(10 * time.Millisecond)

	d, err = limiter.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}
