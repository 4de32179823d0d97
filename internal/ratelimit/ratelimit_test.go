package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/gardenwatch/internal/clock"
	"github.com/smallbiznis/gardenwatch/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBucketBurstThenRefill(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	b := NewMemoryBucket(clk)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := b.Allow(ctx, "k", 1, 3)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "attempt %d", i)
	}

	res, err := b.Allow(ctx, "k", 1, 3)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, time.Second, res.RetryAfter)

	clk.Advance(time.Second)
	res, err = b.Allow(ctx, "k", 1, 3)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
}

func TestMemoryBucketKeysAreIndependent(t *testing.T) {
	b := NewMemoryBucket(clock.NewFakeClock(time.Now()))
	ctx := context.Background()

	res, err := b.Allow(ctx, "a", 1, 1)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = b.Allow(ctx, "b", 1, 1)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMemoryBucketRejectsBadArgs(t *testing.T) {
	b := NewMemoryBucket(clock.New())
	_, err := b.Allow(context.Background(), "", 1, 1)
	assert.Error(t, err)
	_, err = b.Allow(context.Background(), "k", 0, 1)
	assert.Error(t, err)
	_, err = b.Allow(context.Background(), "k", 1, 0)
	assert.Error(t, err)
}

func TestMemoryBucketSweepsIdleBuckets(t *testing.T) {
	clk := clock.NewFakeClock(time.Now())
	b := NewMemoryBucket(clk)
	_, err := b.Allow(context.Background(), "k", 1, 2)
	require.NoError(t, err)

	clk.Advance(time.Minute)
	assert.Equal(t, 1, b.Sweep())
}

func TestAuthLimiterUsesPolicyAndSeparatesActions(t *testing.T) {
	clk := clock.NewFakeClock(time.Now())
	policy := config.DefaultPolicy()
	policy.SignIn = config.RatePolicy{Rate: 0.1, Burst: 1}
	l := NewAuthLimiterWith(NewMemoryBucket(clk), config.NewStaticPolicyHolder(policy), "memory")
	ctx := context.Background()

	res, err := l.AllowSignIn(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = l.AllowSignIn(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	res, err = l.AllowSignUp(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = l.AllowSignIn(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, "memory", l.Backend())
}
