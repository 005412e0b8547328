package ai

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/example/bfhl-service/config"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/storage"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/storage/redis/v3"
)

// Module owns the AI client and its optional Redis answer cache.
type Module struct {
	cfg      config.AIConfig
	redisCfg config.RedisConfig
	client   *Client
	cache    *AnswerCache
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new AI module.
func NewModule(cfg config.AIConfig, redisCfg config.RedisConfig, logger types.Logger) *Module {
	return &Module{
		cfg:      cfg,
		redisCfg: redisCfg,
		logger:   logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "ai"
}

// Start builds the client and, when a cache TTL is configured, connects the
// answer cache.
func (m *Module) Start(_ context.Context) error {
	m.client = NewClient(m.cfg, m.logger)

	if m.cfg.CacheTTL > 0 {
		host, port, err := splitRedisAddr(m.redisCfg.Addr)
		if err != nil {
			return err
		}
		// gofiber/storage/redis panics when it cannot connect, so probe first.
		conn, err := net.DialTimeout("tcp", m.redisCfg.Addr, 2*time.Second)
		if err != nil {
			return fmt.Errorf("answer cache: Redis not reachable at %s: %w", m.redisCfg.Addr, err)
		}
		conn.Close()

		var store storage.Storage = redis.New(redis.Config{
			Host:     host,
			Port:     port,
			Password: m.redisCfg.Password,
			PoolSize: 10,
		})
		m.cache = NewAnswerCache(store, m.cfg.CacheTTL, m.logger)
		m.client.SetCache(m.cache)
	}

	if m.cfg.APIKey == "" {
		m.logger.Warn("OPENAI_API_KEY not set, AI questions will fail")
	}
	m.logger.Info("AI module started", "model", m.client.model, "timeout", m.client.timeout, "cache", m.cache != nil)
	return nil
}

// Stop closes the answer cache.
func (m *Module) Stop(_ context.Context) error {
	if m.cache != nil {
		if err := m.cache.Close(); err != nil {
			m.logger.Error("Failed to close answer cache", "error", err)
			return fmt.Errorf("failed to close answer cache: %w", err)
		}
	}
	m.logger.Info("AI module stopped")
	return nil
}

// Client returns the AI client. It is nil before Start.
func (m *Module) Client() *Client {
	return m.client
}

// Ask delegates to the client, so the module can be handed to consumers
// before it is started.
func (m *Module) Ask(ctx context.Context, question string) (string, error) {
	if m.client == nil {
		return "", fmt.Errorf("%w: module not started", ErrUnavailable)
	}
	return m.client.Ask(ctx, question)
}

// Health reports whether questions can be answered at all. A missing
// credential is reported but does not make the module unhealthy.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.client == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "not started",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"model":                 m.client.model,
			"credential_configured": m.client.hasKey,
			"cache_enabled":         m.cache != nil,
		},
	}
}

func splitRedisAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid REDIS_ADDR %q: %w", addr, err)
	}
	if host == "" {
		host = "127.0.0.1"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid REDIS_ADDR port %q: %w", portStr, err)
	}
	return host, port, nil
}
