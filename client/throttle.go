package client

import (
	"context"
	"sync"
	"time"
)

// Throttle is the interface for proactive rate limiting of translate calls.
// This is not retry logic: a throttle only delays the start of a call so the
// remote quota is never exceeded in the first place.
type Throttle interface {
	// Acquire blocks until a request slot is available.
	Acquire(ctx context.Context) error
	// GetWindowCount returns the number of requests in the current window.
	GetWindowCount() int
	// GetRemaining returns remaining requests available in the current window.
	GetRemaining() int
	// Reset clears the throttle state.
	Reset()
}

// SlidingWindowThrottle limits requests to N per window. The hosted
// service's quota is 60 translate requests per minute per key.
type SlidingWindowThrottle struct {
	mu         sync.Mutex
	limit      int
	window     time.Duration
	timestamps []time.Time
}

// NewSlidingWindowThrottle creates a throttle of requestsPerMinute over a
// one-minute window. Non-positive values fall back to 60.
func NewSlidingWindowThrottle(requestsPerMinute int) *SlidingWindowThrottle {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return &SlidingWindowThrottle{
		limit:      requestsPerMinute,
		window:     time.Minute,
		timestamps: make([]time.Time, 0, requestsPerMinute),
	}
}

// Acquire waits until a request slot is available.
func (t *SlidingWindowThrottle) Acquire(ctx context.Context) error {
	for {
		t.mu.Lock()
		now := time.Now()
		windowStart := now.Add(-t.window)

		// Drop timestamps outside the window.
		kept := t.timestamps[:0]
		for _, ts := range t.timestamps {
			if ts.After(windowStart) {
				kept = append(kept, ts)
			}
		}
		t.timestamps = kept

		if len(t.timestamps) < t.limit {
			t.timestamps = append(t.timestamps, now)
			t.mu.Unlock()
			return nil
		}

		oldest := t.timestamps[0]
		wait := oldest.Add(t.window).Sub(now)
		t.mu.Unlock()

		if wait <= 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// GetWindowCount returns the number of requests in the current window.
func (t *SlidingWindowThrottle) GetWindowCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	windowStart := time.Now().Add(-t.window)
	count := 0
	for _, ts := range t.timestamps {
		if ts.After(windowStart) {
			count++
		}
	}
	return count
}

// GetRemaining returns remaining requests available in the current window.
func (t *SlidingWindowThrottle) GetRemaining() int {
	remaining := t.limit - t.GetWindowCount()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset clears the throttle state.
func (t *SlidingWindowThrottle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timestamps = t.timestamps[:0]
}

// NoOpThrottle is a throttle that does nothing (the default).
type NoOpThrottle struct{}

// NewNoOpThrottle creates a no-op throttle.
func NewNoOpThrottle() *NoOpThrottle {
	return &NoOpThrottle{}
}

// Acquire does nothing and returns immediately.
func (t *NoOpThrottle) Acquire(ctx context.Context) error {
	return nil
}

// GetWindowCount always returns 0.
func (t *NoOpThrottle) GetWindowCount() int {
	return 0
}

// GetRemaining always returns a large number.
func (t *NoOpThrottle) GetRemaining() int {
	return 1000000
}

// Reset does nothing.
func (t *NoOpThrottle) Reset() {}
