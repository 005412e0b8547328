// Package ratelimit provides domain types and interfaces for rate limiting.
package ratelimit

import (
	"context"
	"time"
)

// Backend selects where request counts are kept.
type Backend string

const (
	// BackendMemory keeps counts in process; limits apply per instance.
	BackendMemory Backend = "memory"
	// BackendRedis keeps counts in Redis; limits are shared by all instances.
	BackendRedis Backend = "redis"
)

// DefaultKeyPrefix prefixes every rate limit key stored in Redis.
const DefaultKeyPrefix = "bfhl:ratelimit:"

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerWindow is the maximum number of requests allowed in the window.
	RequestsPerWindow int
	// WindowSize is the duration of the sliding window.
	WindowSize time.Duration
}

// Result represents the outcome of a rate limit check.
type Result struct {
	// Allowed indicates whether the request is allowed.
	Allowed bool
	// Remaining is the number of requests remaining in the current window.
	Remaining int
	// ResetAt is when the rate limit window resets.
	ResetAt time.Time
	// RetryAfter is the duration to wait before retrying (only set when not allowed).
	RetryAfter time.Duration
}

// Limiter is the interface for rate limiting implementations.
type Limiter interface {
	// Allow checks if a request identified by key is allowed under the rate limit.
	Allow(ctx context.Context, key string) (*Result, error)
}

// DefaultConfig returns 100 requests per client per minute.
func DefaultConfig() Config {
	return Config{
		RequestsPerWindow: 100,
		WindowSize:        time.Minute,
	}
}
