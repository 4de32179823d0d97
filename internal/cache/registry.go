package cache

import (
	"context"
	"sync"
	"time"

	"github.com/smallbiznis/gardenwatch/internal/clock"
	"github.com/smallbiznis/gardenwatch/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const sweepInterval = time.Minute

// Registry maps session ids to their slots and evicts idle sessions.
type Registry struct {
	policy *config.PolicyHolder
	clock  clock.Clock
	log    *zap.Logger

	mu       sync.Mutex
	sessions *TTLCache[string, *Slots]
}

func NewRegistry(policy *config.PolicyHolder, clk clock.Clock, log *zap.Logger) *Registry {
	return &Registry{
		policy:   policy,
		clock:    clk,
		log:      log.Named("cache.registry"),
		sessions: NewTTLCache[string, *Slots](clk),
	}
}

// Get returns the slots for sessionID, creating them on first use.
// Every access extends the idle deadline.
func (r *Registry) Get(sessionID string) *Slots {
	p := r.policy.Get().Cache

	r.mu.Lock()
	defer r.mu.Unlock()
	slots, ok := r.sessions.Get(sessionID)
	if !ok {
		slots = NewSlots(p, r.clock)
	}
	r.sessions.Set(sessionID, slots, p.SessionIdleTTL)
	return slots
}

func (r *Registry) Remove(sessionID string) {
	r.sessions.Delete(sessionID)
}

func (r *Registry) Len() int {
	return r.sessions.Len()
}

func (r *Registry) Sweep() int {
	return r.sessions.Sweep()
}

func startSweeper(lc fx.Lifecycle, r *Registry) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ticker := time.NewTicker(sweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if removed := r.Sweep(); removed > 0 {
							r.log.Debug("evicted idle session caches", zap.Int("count", removed))
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
