package api

import (
	"context"
	"time"

	"github.com/example/bfhl-service/domain/bfhl"
	"github.com/gofiber/fiber/v2"
)

// Executor runs a decoded operation and returns its data payload.
type Executor interface {
	Execute(ctx context.Context, op bfhl.Operation) (any, error)
}

// Handlers provides HTTP handlers for the API endpoints.
type Handlers struct {
	email   string
	service Executor
	timeout time.Duration
}

// NewHandlers creates a new handlers instance. A positive timeout bounds
// each operation.
func NewHandlers(email string, service Executor, timeout time.Duration) *Handlers {
	return &Handlers{
		email:   email,
		service: service,
		timeout: timeout,
	}
}

// Health handles GET /health.
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(bfhl.Success(h.email, nil))
}

// Execute handles POST /bfhl. Errors are rendered by the app error handler.
func (h *Handlers) Execute(c *fiber.Ctx) error {
	op, err := bfhl.Decode(c.Body())
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	data, err := h.service.Execute(ctx, op)
	if err != nil {
		return err
	}

	return c.JSON(bfhl.Success(h.email, data))
}
