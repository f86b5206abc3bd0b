package netutil

import (
	"context"
	"sync"
	"time"
)

// RateLimiter spaces calls so at most callsPerSecond happen per
// second. Safe for concurrent use.
type RateLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	lastCall    time.Time
}

func NewRateLimiter(callsPerSecond float64) *RateLimiter {
	if callsPerSecond <= 0 {
		callsPerSecond = 1
	}

	return &RateLimiter{
		minInterval: time.Duration(float64(time.Second) / callsPerSecond),
	}
}

// Wait blocks until the next call is allowed, then records it.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	elapsed := time.Since(r.lastCall)
	wait := r.minInterval - elapsed
	r.mu.Unlock()

	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	r.mu.Lock()
	r.lastCall = time.Now()
	r.mu.Unlock()

	return nil
}
