package notifier

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket sized to a webhook's documented limit.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows burst requests at once, refilled at requestsPerSecond.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Allow blocks until a token is available or ctx is done.
func (r *RateLimiter) Allow(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Burst reports the bucket size.
func (r *RateLimiter) Burst() int { return r.limiter.Burst() }
