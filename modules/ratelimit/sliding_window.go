// Package ratelimit enforces the per-client request ceiling in front of the API.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/example/bfhl-service/domain/ratelimit"
	"github.com/redis/go-redis/v9"
)

// slidingWindowScript trims the window, counts it and records the request
// atomically. It returns {allowed, remaining, retry_after_ms}.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local counter_key = KEYS[2]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
	local count = redis.call('ZCARD', key)

	if count < limit then
		local seq = redis.call('INCR', counter_key)
		redis.call('ZADD', key, now, now .. ':' .. seq)
		redis.call('PEXPIRE', key, window_ms)
		redis.call('PEXPIRE', counter_key, window_ms)
		return {1, limit - count - 1, 0}
	end

	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	local retry_after = 0
	if #oldest >= 2 then
		retry_after = tonumber(oldest[2]) + window_ms - now
	end
	return {0, 0, retry_after}
`)

// SlidingWindowLimiter implements a sliding window rate limiter using Redis
// sorted sets, so every instance behind a load balancer shares one count.
type SlidingWindowLimiter struct {
	client redis.Scripter
	config ratelimit.Config
	prefix string
	now    func() time.Time
}

var _ ratelimit.Limiter = (*SlidingWindowLimiter)(nil)

// NewSlidingWindowLimiter creates a new sliding window rate limiter.
func NewSlidingWindowLimiter(client redis.Scripter, config ratelimit.Config, prefix string) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		client: client,
		config: config,
		prefix: prefix,
		now:    time.Now,
	}
}

// Allow records a request for key and reports whether it fits the window.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (*ratelimit.Result, error) {
	now := l.now()
	redisKey := l.prefix + key

	values, err := slidingWindowScript.Run(ctx, l.client,
		[]string{redisKey, redisKey + ":seq"},
		now.UnixMilli(),
		now.Add(-l.config.WindowSize).UnixMilli(),
		l.config.RequestsPerWindow,
		l.config.WindowSize.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run rate limit script: %w", err)
	}
	if len(values) != 3 {
		return nil, fmt.Errorf("unexpected rate limit script result length: %d", len(values))
	}

	res := &ratelimit.Result{
		Allowed:   values[0] == 1,
		Remaining: int(values[1]),
		ResetAt:   now.Add(l.config.WindowSize),
	}
	if !res.Allowed && values[2] > 0 {
		res.RetryAfter = time.Duration(values[2]) * time.Millisecond
		res.ResetAt = now.Add(res.RetryAfter)
	}
	return res, nil
}

// Config returns the limiter's configuration.
func (l *SlidingWindowLimiter) Config() ratelimit.Config {
	return l.config
}
