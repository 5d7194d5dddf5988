// Package ratelimit paces requests to the AI services.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
)

// Ensure RateLimiter implements the interface.
var _ driven.Throttler = (*RateLimiter)(nil)

// DefaultBackoff is the pause applied after a rate limit error without a retry hint.
const DefaultBackoff = 60 * time.Second

// RateLimiter lets one request through per interval.
// It uses a token bucket with a burst of one, so the first request is not
// delayed, plus an optional backoff after 429 responses.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a limiter allowing one request per interval.
// A zero or negative interval disables pacing.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by Backoff.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		timer := time.NewTimer(time.Until(retryAt))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// Backoff delays the next request by d, or by DefaultBackoff when d is not positive.
// Call this when the upstream service answers 429.
func (r *RateLimiter) Backoff(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d <= 0 {
		d = DefaultBackoff
	}
	r.retryAt = time.Now().Add(d)
}
