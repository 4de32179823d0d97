package cache

import (
	"sync"
	"time"

	"github.com/smallbiznis/gardenwatch/internal/clock"
)

// Slot holds one cached value with its own ttl.
type Slot[T any] struct {
	name  string
	ttl   time.Duration
	clock clock.Clock

	mu        sync.Mutex
	value     T
	expiresAt time.Time
	loaded    bool
	// gen advances on every Clear so an in-flight fill cannot store a pre-clear read.
	gen uint64
}

func NewSlot[T any](name string, ttl time.Duration, clk clock.Clock) *Slot[T] {
	return &Slot[T]{name: name, ttl: ttl, clock: clk}
}

func (s *Slot[T]) Name() string { return s.name }

func (s *Slot[T]) Get() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if !s.loaded {
		return zero, false
	}
	if !s.clock.Now().Before(s.expiresAt) {
		s.value = zero
		s.loaded = false
		return zero, false
	}
	return s.value, true
}

func (s *Slot[T]) Set(value T) {
	s.mu.Lock()
	s.value = value
	s.expiresAt = s.clock.Now().Add(s.ttl)
	s.loaded = true
	s.mu.Unlock()
}

func (s *Slot[T]) Clear() {
	s.mu.Lock()
	var zero T
	s.value = zero
	s.loaded = false
	s.gen++
	s.mu.Unlock()
}

// Load returns the cached value or calls fill and caches its result.
// Errors from fill are returned as-is and nothing is cached. A Clear that
// lands while fill runs wins: the result is returned but not cached.
func (s *Slot[T]) Load(fill func() (T, error)) (T, error) {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	if v, ok := s.Get(); ok {
		return v, nil
	}
	v, err := fill()
	if err != nil {
		var zero T
		return zero, err
	}

	s.mu.Lock()
	if s.gen == gen {
		s.value = v
		s.expiresAt = s.clock.Now().Add(s.ttl)
		s.loaded = true
	}
	s.mu.Unlock()
	return v, nil
}
