// BFHL Service - a small JSON API computing Fibonacci series, prime filters,
// LCM/HCF and one-word AI answers behind a single POST endpoint.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/bfhl-service/config"
	"github.com/example/bfhl-service/modules/ai"
	"github.com/example/bfhl-service/modules/api"
	bfhlmod "github.com/example/bfhl-service/modules/bfhl"
	"github.com/example/bfhl-service/modules/ratelimit"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== BFHL Service - Fiber ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.LogSummary()

	// Only info and error are distinguished.
	logLevel := mono.LogLevelInfo
	if cfg.LogLevel == "error" {
		logLevel = mono.LogLevelError
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(logLevel),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	logger := app.Logger()

	// Create modules
	rateLimitModule := ratelimit.NewModule(cfg.RateLimit, cfg.Redis, logger.WithModule("rate-limiter"))
	aiModule := ai.NewModule(cfg.AI, cfg.Redis, logger.WithModule("ai"))
	apiModule := api.NewModule(cfg, logger.WithModule("api"))

	// Inject dependencies. The AI module answers through its client once started.
	apiModule.SetRateLimitModule(rateLimitModule)
	apiModule.SetService(bfhlmod.NewService(aiModule))

	// Register modules (order matters: the API module starts last)
	app.Register(rateLimitModule)
	app.Register(aiModule)
	app.Register(apiModule)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg *config.Config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("Rate limit: %d requests per %s per client IP (%s backend)",
		cfg.RateLimit.Limit.RequestsPerWindow, cfg.RateLimit.Limit.WindowSize, cfg.RateLimit.Backend)
	log.Printf("AI model: %s (timeout %s)", cfg.AI.Model, cfg.AI.Timeout)
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", cfg.Port)
	log.Println("  GET  /health - Liveness probe")
	log.Println("  POST /bfhl   - One of: fibonacci, prime, lcm, hcf, AI")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
