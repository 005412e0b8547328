// Package config loads the process configuration once at startup.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/bfhl-service/domain/ratelimit"
	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultPort          = 3000
	DefaultOfficialEmail = "japit0612.be23@chitkara.edu.in"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultAITimeout     = 5 * time.Second
	DefaultBodyLimit     = 1 << 20

	DefaultRequestTimeout = 10 * time.Second
)

// Config is the complete process configuration.
type Config struct {
	Port          int
	OfficialEmail string
	Env           string
	LogLevel      string

	// BodyLimit is the request body ceiling in bytes.
	BodyLimit int
	// ProxyHeader, when set, is trusted for the client IP (e.g. X-Forwarded-For).
	ProxyHeader string
	// RequestTimeout bounds the computation of one /bfhl request.
	RequestTimeout time.Duration

	AI        AIConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
}

// AIConfig configures the AI lookup client.
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	// CacheTTL enables the Redis answer cache when positive.
	CacheTTL time.Duration
}

// RateLimitConfig configures the per-client request ceiling.
type RateLimitConfig struct {
	Backend ratelimit.Backend
	Limit   ratelimit.Config
}

// RedisConfig is shared by the Redis-backed rate limiter and answer cache.
type RedisConfig struct {
	Addr     string
	Password string
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads a .env file when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Port:           getEnvInt("PORT", DefaultPort),
		OfficialEmail:  getEnv("OFFICIAL_EMAIL", DefaultOfficialEmail),
		Env:            getEnv("APP_ENV", getEnv("NODE_ENV", "development")),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		BodyLimit:      getEnvInt("BODY_LIMIT_BYTES", DefaultBodyLimit),
		ProxyHeader:    getEnv("PROXY_HEADER", ""),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", DefaultRequestTimeout),
		AI: AIConfig{
			APIKey:   os.Getenv("OPENAI_API_KEY"),
			BaseURL:  getEnv("OPENAI_BASE_URL", DefaultOpenAIBaseURL),
			Model:    getEnv("OPENAI_MODEL", DefaultOpenAIModel),
			Timeout:  getEnvDuration("AI_TIMEOUT", DefaultAITimeout),
			CacheTTL: getEnvDuration("AI_CACHE_TTL", 0),
		},
		RateLimit: RateLimitConfig{
			Backend: ratelimit.Backend(strings.ToLower(getEnv("RATE_LIMIT_BACKEND", string(ratelimit.BackendMemory)))),
			Limit: ratelimit.Config{
				RequestsPerWindow: getEnvInt("RATE_LIMIT_MAX", ratelimit.DefaultConfig().RequestsPerWindow),
				WindowSize:        getEnvDuration("RATE_LIMIT_WINDOW", ratelimit.DefaultConfig().WindowSize),
			},
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have no safe fallback.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.OfficialEmail == "" {
		return errors.New("OFFICIAL_EMAIL must not be empty")
	}
	if c.BodyLimit <= 0 {
		return fmt.Errorf("invalid BODY_LIMIT_BYTES %d", c.BodyLimit)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid REQUEST_TIMEOUT %s", c.RequestTimeout)
	}
	if c.RateLimit.Limit.RequestsPerWindow <= 0 || c.RateLimit.Limit.WindowSize <= 0 {
		return errors.New("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	}

	switch c.RateLimit.Backend {
	case ratelimit.BackendMemory:
	case ratelimit.BackendRedis:
		if !c.Redis.Enabled() {
			return errors.New("RATE_LIMIT_BACKEND=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimit.Backend)
	}

	if c.AI.Timeout <= 0 {
		return fmt.Errorf("invalid AI_TIMEOUT %s", c.AI.Timeout)
	}
	if c.AI.CacheTTL > 0 && !c.Redis.Enabled() {
		return errors.New("AI_CACHE_TTL requires REDIS_ADDR")
	}
	return nil
}

// LogSummary prints which settings are present without revealing secrets.
func (c *Config) LogSummary() {
	log.Printf("Configuration:")
	log.Printf("  Environment: %s", c.Env)
	log.Printf("  HTTP Port: %d", c.Port)
	log.Printf("  Body Limit: %d bytes", c.BodyLimit)
	log.Printf("  Request Timeout: %s", c.RequestTimeout)
	log.Printf("  Rate Limit: %d requests per %s (%s)", c.RateLimit.Limit.RequestsPerWindow, c.RateLimit.Limit.WindowSize, c.RateLimit.Backend)
	if !c.IsProduction() {
		log.Printf("  OFFICIAL_EMAIL: %s", presence(c.OfficialEmail))
		log.Printf("  OPENAI_API_KEY: %s", presence(c.AI.APIKey))
	}
	if c.Redis.Enabled() {
		log.Printf("  Redis Address: %s", c.Redis.Addr)
	}
	if c.AI.CacheTTL > 0 {
		log.Printf("  AI Answer Cache TTL: %s", c.AI.CacheTTL)
	}
}

func presence(v string) string {
	if v == "" {
		return "missing"
	}
	return "set"
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default value.
// Logs a warning if the value cannot be parsed as an integer.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
		log.Printf("Warning: invalid integer value for %s: %q, using default %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Warning: invalid duration value for %s: %q, using default %s", key, value, defaultValue)
	return defaultValue
}
