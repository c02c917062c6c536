// Package ratelimit throttles webhook deliveries per source so a
// misbehaving sender cannot flood the settlement pipeline.
package ratelimit

import "context"

type Limits struct {
	PerMinute int
	PerHour   int
}

type RateLimiter interface {
	// Allow records one request for key and reports whether it is within
	// the configured limits.
	Allow(ctx context.Context, key string, limits Limits) (bool, error)
	Reset(ctx context.Context, key string) error
}
