// Package api serves the /bfhl and /health endpoints over Fiber.
package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/example/bfhl-service/config"
	"github.com/example/bfhl-service/domain/bfhl"
	ratelimitmod "github.com/example/bfhl-service/modules/ratelimit"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// healthPath is the liveness probe. It is exempt from rate limiting.
const healthPath = "/health"

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 60 * time.Second
)

// Module provides the HTTP API.
type Module struct {
	cfg             *config.Config
	app             *fiber.App
	handlers        *Handlers
	service         Executor
	rateLimitModule *ratelimitmod.Module
	logger          types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new API module.
func NewModule(cfg *config.Config, logger types.Logger) *Module {
	return &Module{
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// SetService sets the operation executor.
func (m *Module) SetService(svc Executor) {
	m.service = svc
}

// SetRateLimitModule sets the rate limiting module dependency. It must be
// started before this module.
func (m *Module) SetRateLimitModule(rlm *ratelimitmod.Module) {
	m.rateLimitModule = rlm
}

// setup builds the Fiber app and its routes.
func (m *Module) setup() {
	m.app = fiber.New(fiber.Config{
		AppName:               "BFHL Service",
		DisableStartupMessage: true,
		ErrorHandler:          m.errorHandler,
		BodyLimit:             m.cfg.BodyLimit,
		ProxyHeader:           m.cfg.ProxyHeader,
		JSONEncoder:           sonic.ConfigStd.Marshal,
		JSONDecoder:           sonic.ConfigStd.Unmarshal,
		ReadTimeout:           readTimeout,
		WriteTimeout:          writeTimeout,
		IdleTimeout:           idleTimeout,
	})

	// Global middleware
	m.app.Use(recover.New())
	m.app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(helmet.New())
	m.app.Use(cors.New())

	if m.rateLimitModule != nil && m.rateLimitModule.Middleware() != nil {
		m.app.Use(skipPath(healthPath, m.rateLimitModule.Middleware().Handler()))
	} else {
		m.logger.Warn("Rate limiter not configured, serving without request ceiling")
	}

	m.handlers = NewHandlers(m.cfg.OfficialEmail, m.service, m.cfg.RequestTimeout)
	m.setupRoutes()
}

// setupRoutes configures all HTTP routes. Unmatched paths and methods fall
// through to the error handler as 404/405.
func (m *Module) setupRoutes() {
	m.app.Get(healthPath, m.handlers.Health)
	m.app.Post("/bfhl", m.handlers.Execute)
}

// Start builds the app and starts the HTTP server.
func (m *Module) Start(_ context.Context) error {
	if m.service == nil {
		return errors.New("api: service not set")
	}
	m.setup()

	addr := fmt.Sprintf(":%d", m.cfg.Port)

	// Start server in goroutine with startup error detection
	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	m.logger.Info("HTTP server started", "addr", addr)
	return nil
}

// Stop drains in-flight requests and stops the HTTP server.
func (m *Module) Stop(ctx context.Context) error {
	if m.app != nil {
		m.logger.Info("Shutting down HTTP server...")
		if err := m.app.ShutdownWithContext(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}
	m.logger.Info("HTTP server stopped")
	return nil
}

// Health reports whether the app has been built.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.app == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "not started",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"port":       m.cfg.Port,
			"body_limit": m.cfg.BodyLimit,
		},
	}
}

// errorHandler renders every failure as a bfhl failure envelope. Framework
// errors are mapped onto the bfhl taxonomy first; anything unclassified is an
// internal error whose text is logged and never returned.
func (m *Module) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			err = bfhl.NewError(bfhl.RouteNotFound, bfhl.MsgRouteNotFound, err)
		case fiber.StatusRequestEntityTooLarge:
			err = bfhl.NewError(bfhl.PayloadTooLarge, bfhl.MsgPayloadTooLarge, err)
		case fiber.StatusBadRequest:
			err = bfhl.NewError(bfhl.InvalidBody, bfhl.MsgInvalidBody, err)
		}
	}

	e := bfhl.Classify(err)
	status := e.Kind.Status()

	log := m.logger.With(
		"request_id", c.Locals(requestid.ConfigDefault.ContextKey),
		"method", c.Method(),
		"path", c.Path(),
		"kind", e.Kind.String(),
	)
	if status >= fiber.StatusInternalServerError {
		log.Error("Request failed", "status", status, "error", err)
	} else {
		log.Debug("Request rejected", "status", status, "error", err)
	}

	return c.Status(status).JSON(bfhl.Failure(e.Message))
}

// skipPath runs handler for every request except those to path.
func skipPath(path string, handler fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == path {
			return c.Next()
		}
		return handler(c)
	}
}

// GetApp returns the Fiber app (for testing).
func (m *Module) GetApp() *fiber.App {
	return m.app
}
