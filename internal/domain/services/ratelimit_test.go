package services

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock is an adjustable time source for deterministic limiter tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiterWithClock(2, time.Minute, clock.Now)

	if !rl.Allow(1) {
		t.Fatal("first admission refused")
	}
	if !rl.Allow(1) {
		t.Fatal("second admission refused")
	}
	if rl.Allow(1) {
		t.Fatal("third admission permitted, want refusal")
	}

	clock.Advance(61 * time.Second)

	if !rl.Allow(1) {
		t.Fatal("admission refused after window elapsed")
	}
}

func TestRateLimiterRefusalRecordsNothing(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiterWithClock(2, time.Minute, clock.Now)

	if rl.Allow(3) {
		t.Fatal("oversized batch permitted")
	}
	// The refused batch must not have consumed any budget.
	if !rl.Allow(2) {
		t.Fatal("full batch refused after a rejected one")
	}
}

func TestRateLimiterPartialWindowEviction(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiterWithClock(3, time.Minute, clock.Now)

	rl.Allow(2)
	clock.Advance(30 * time.Second)
	rl.Allow(1)

	clock.Advance(31 * time.Second) // first two now outside the window

	if !rl.Allow(2) {
		t.Fatal("expected two slots after partial eviction")
	}
	if rl.Allow(1) {
		t.Fatal("window should be full again")
	}
}

func TestRateLimiterConcurrent(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)

	var admitted int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow(1) {
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	if admitted != 5 {
		t.Fatalf("admitted %d goroutines, want exactly 5", admitted)
	}
}
