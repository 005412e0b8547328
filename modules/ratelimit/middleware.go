package ratelimit

import (
	"strconv"

	"github.com/example/bfhl-service/domain/bfhl"
	"github.com/example/bfhl-service/domain/ratelimit"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Middleware limits requests per client IP.
type Middleware struct {
	backend ratelimit.Backend
	config  ratelimit.Config
	limiter ratelimit.Limiter
	logger  types.Logger
	handler fiber.Handler
}

// NewMemoryMiddleware keeps a sliding window per client in process memory.
func NewMemoryMiddleware(config ratelimit.Config, logger types.Logger) *Middleware {
	m := &Middleware{
		backend: ratelimit.BackendMemory,
		config:  config,
		logger:  logger,
	}
	m.handler = limiter.New(limiter.Config{
		Max:               config.RequestsPerWindow,
		Expiration:        config.WindowSize,
		KeyGenerator:      clientKey,
		LimitReached:      sendRateLimitExceeded,
		LimiterMiddleware: limiter.SlidingWindow{},
	})
	return m
}

// NewLimiterMiddleware enforces limits through an external Limiter such as
// the Redis sliding window. Limiter errors let the request through.
func NewLimiterMiddleware(l ratelimit.Limiter, config ratelimit.Config, logger types.Logger) *Middleware {
	m := &Middleware{
		backend: ratelimit.BackendRedis,
		config:  config,
		limiter: l,
		logger:  logger,
	}
	m.handler = m.limitByIP
	return m
}

// Handler returns the Fiber handler to mount in front of the routes.
func (m *Middleware) Handler() fiber.Handler {
	return m.handler
}

// Backend reports where request counts are kept.
func (m *Middleware) Backend() ratelimit.Backend {
	return m.backend
}

func (m *Middleware) limitByIP(c *fiber.Ctx) error {
	key := clientKey(c)

	result, err := m.limiter.Allow(c.UserContext(), key)
	if err != nil {
		m.logger.Warn("Rate limit check failed, allowing request", "client", key, "error", err)
		return c.Next()
	}

	setRateLimitHeaders(c, result, m.config.RequestsPerWindow)

	if !result.Allowed {
		retryAfter := int(result.RetryAfter.Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		return sendRateLimitExceeded(c)
	}

	return c.Next()
}

func clientKey(c *fiber.Ctx) string {
	return c.IP()
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(c *fiber.Ctx, result *ratelimit.Result, limit int) {
	c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

// sendRateLimitExceeded sends a 429 Too Many Requests response.
func sendRateLimitExceeded(c *fiber.Ctx) error {
	return c.Status(bfhl.RateLimited.Status()).JSON(bfhl.Failure(bfhl.MsgRateLimited))
}
