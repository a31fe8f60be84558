// Package ratelimiter paces outbound calls to the upstream market-data service.
package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RateLimiterInterface limits how often an operation such as an API call may run.
type RateLimiterInterface interface {
	Wait(ctx context.Context) error
}

// RateLimiter allows at most limit calls per fixed window.
type RateLimiter struct {
	limit    int           // calls per window
	interval time.Duration // window length
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error

	mu        sync.Mutex
	count     int
	lastReset time.Time
}

// NewRateLimiter creates a RateLimiter. A non-positive limit disables limiting.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		now:       time.Now,
		sleep:     sleepContext,
		lastReset: time.Now(),
	}
}

// Wait blocks until the current window has room for one more call, or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.limit <= 0 || rl.interval <= 0 {
		return ctx.Err()
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// reset the counter once the window has elapsed
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count <= rl.limit {
		return nil
	}

	if wait := rl.interval - now.Sub(rl.lastReset); wait > 0 {
		slog.Info("rate limit reached, waiting", "limit", rl.limit, "wait", wait)
		if err := rl.sleep(ctx, wait); err != nil {
			rl.count--
			return err
		}
	}
	rl.count = 1
	rl.lastReset = rl.now()
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
