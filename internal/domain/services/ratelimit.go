package services

import (
	"sync"
	"time"
)

// Default admission policy: 100 analyses per trailing minute.
const (
	DefaultRateLimitMax    = 100
	DefaultRateLimitWindow = time.Minute
)

// RateLimiter is a sliding-window admission gate shared across analysis
// calls. Timestamps older than the window are evicted before each decision.
// All state is guarded by the mutex so concurrent batches cannot race past
// the limit.
type RateLimiter struct {
	mu         sync.Mutex
	max        int
	window     time.Duration
	now        func() time.Time
	timestamps []time.Time
}

// NewRateLimiter creates a limiter admitting at most max analyses per window,
// using the wall clock.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return NewRateLimiterWithClock(max, window, time.Now)
}

// NewRateLimiterWithClock creates a limiter with an injected time source so
// tests can simulate elapsed time without sleeping.
func NewRateLimiterWithClock(max int, window time.Duration, now func() time.Time) *RateLimiter {
	if max <= 0 {
		max = DefaultRateLimitMax
	}
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	return &RateLimiter{
		max:    max,
		window: window,
		now:    now,
	}
}

// Allow reports whether n more admissions fit in the current window.
// A refused call records nothing, so a rejected batch consumes no budget.
func (rl *RateLimiter) Allow(n int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	evict := 0
	for evict < len(rl.timestamps) && rl.timestamps[evict].Before(cutoff) {
		evict++
	}
	rl.timestamps = rl.timestamps[evict:]

	if len(rl.timestamps)+n > rl.max {
		return false
	}
	for i := 0; i < n; i++ {
		rl.timestamps = append(rl.timestamps, now)
	}
	return true
}
