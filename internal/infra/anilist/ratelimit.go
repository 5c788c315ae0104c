package anilist

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter paces requests to the AniList API with a token bucket.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter allowing perMinute requests per minute
// with the given burst.
//
// Example:
//
//	limiter := NewRateLimiter(60, 5) // 1 req/s, burst of 5
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst),
	}
}

// Wait blocks until a token is available or the context is canceled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
