package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/example/bfhl-service/config"
	"github.com/example/bfhl-service/domain/ratelimit"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/redis/go-redis/v9"
)

// Module provides rate limiting services as a mono module.
type Module struct {
	cfg        config.RateLimitConfig
	redisCfg   config.RedisConfig
	client     *redis.Client
	middleware *Middleware
	logger     types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new rate limiting module.
func NewModule(cfg config.RateLimitConfig, redisCfg config.RedisConfig, logger types.Logger) *Module {
	return &Module{
		cfg:      cfg,
		redisCfg: redisCfg,
		logger:   logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "rate-limiter"
}

// Start builds the middleware, connecting to Redis for the redis backend.
func (m *Module) Start(ctx context.Context) error {
	if m.cfg.Backend != ratelimit.BackendRedis {
		m.middleware = NewMemoryMiddleware(m.cfg.Limit, m.logger)
		m.logger.Info("Rate limiter started", "backend", ratelimit.BackendMemory,
			"limit", m.cfg.Limit.RequestsPerWindow, "window", m.cfg.Limit.WindowSize)
		return nil
	}

	m.client = redis.NewClient(&redis.Options{
		Addr:         m.redisCfg.Addr,
		Password:     m.redisCfg.Password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := m.client.Ping(ctx).Err(); err != nil {
		_ = m.client.Close()
		m.client = nil
		return fmt.Errorf("failed to connect to Redis at %s: %w", m.redisCfg.Addr, err)
	}

	limiter := NewSlidingWindowLimiter(m.client, m.cfg.Limit, ratelimit.DefaultKeyPrefix)
	m.middleware = NewLimiterMiddleware(limiter, m.cfg.Limit, m.logger)
	m.logger.Info("Rate limiter started", "backend", ratelimit.BackendRedis, "redis", m.redisCfg.Addr,
		"limit", m.cfg.Limit.RequestsPerWindow, "window", m.cfg.Limit.WindowSize)
	return nil
}

// Stop closes the Redis connection, if any.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			m.logger.Error("Failed to close Redis connection", "error", err)
			return err
		}
	}
	m.logger.Info("Rate limiter stopped")
	return nil
}

// Middleware returns the rate limiting middleware. It is nil before Start.
func (m *Module) Middleware() *Middleware {
	return m.middleware
}

// Health verifies the Redis connection when the redis backend is used.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.middleware == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "not started",
		}
	}
	if m.client != nil {
		if err := m.client.Ping(ctx).Err(); err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("redis ping failed: %v", err),
			}
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"backend": string(m.cfg.Backend),
			"limit":   m.cfg.Limit.RequestsPerWindow,
			"window":  m.cfg.Limit.WindowSize.String(),
		},
	}
}
