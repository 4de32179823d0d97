package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/smallbiznis/gardenwatch/internal/cache"
	"github.com/smallbiznis/gardenwatch/internal/clock"
)

type bucketState struct {
	tokens float64
	ts     time.Time
}

// MemoryBucket is a process-local Limiter used when Redis is not configured.
type MemoryBucket struct {
	mu      sync.Mutex
	clock   clock.Clock
	buckets *cache.TTLCache[string, bucketState]
}

func NewMemoryBucket(clk clock.Clock) *MemoryBucket {
	return &MemoryBucket{
		clock:   clk,
		buckets: cache.NewTTLCache[string, bucketState](clk),
	}
}

func (m *MemoryBucket) Allow(ctx context.Context, key string, rate float64, burst int) (*RateLimitResult, error) {
	if err := validateArgs(key, rate, burst); err != nil {
		return &RateLimitResult{Allowed: false}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	state, ok := m.buckets.Get(key)
	if !ok {
		state = bucketState{tokens: float64(burst), ts: now}
	} else {
		delta := now.Sub(state.ts).Seconds()
		if delta < 0 {
			delta = 0
		}
		state.tokens = math.Min(float64(burst), state.tokens+delta*rate)
		state.ts = now
	}

	allowed := state.tokens >= 1
	if allowed {
		state.tokens--
	}
	m.buckets.Set(key, state, defaultBucketTTL(rate, burst))

	return newResult(allowed, burst, state.tokens, rate, now), nil
}

// Sweep drops idle buckets.
func (m *MemoryBucket) Sweep() int {
	return m.buckets.Sweep()
}
