package config

import (
	"testing"
	"time"

	"github.com/example/bfhl-service/domain/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "OFFICIAL_EMAIL", "APP_ENV", "NODE_ENV", "LOG_LEVEL", "BODY_LIMIT_BYTES",
	"PROXY_HEADER", "REQUEST_TIMEOUT", "OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL", "AI_TIMEOUT",
	"AI_CACHE_TTL", "RATE_LIMIT_BACKEND", "RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW",
	"REDIS_ADDR", "REDIS_PASSWORD",
}

// clearEnv blanks every variable Load reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultOfficialEmail, cfg.OfficialEmail)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, DefaultBodyLimit, cfg.BodyLimit)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Empty(t, cfg.AI.APIKey)
	assert.Equal(t, DefaultOpenAIBaseURL, cfg.AI.BaseURL)
	assert.Equal(t, DefaultOpenAIModel, cfg.AI.Model)
	assert.Equal(t, DefaultAITimeout, cfg.AI.Timeout)
	assert.Zero(t, cfg.AI.CacheTTL)
	assert.Equal(t, ratelimit.BackendMemory, cfg.RateLimit.Backend)
	assert.Equal(t, 100, cfg.RateLimit.Limit.RequestsPerWindow)
	assert.Equal(t, time.Minute, cfg.RateLimit.Limit.WindowSize)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("OFFICIAL_EMAIL", "someone@example.com")
	t.Setenv("APP_ENV", "production")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AI_TIMEOUT", "3")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("AI_CACHE_TTL", "10m")
	t.Setenv("RATE_LIMIT_BACKEND", "REDIS")
	t.Setenv("RATE_LIMIT_MAX", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "someone@example.com", cfg.OfficialEmail)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, 3*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Minute, cfg.AI.CacheTTL)
	assert.Equal(t, ratelimit.BackendRedis, cfg.RateLimit.Backend)
	assert.Equal(t, 5, cfg.RateLimit.Limit.RequestsPerWindow)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Limit.WindowSize)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")
	t.Setenv("AI_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultAITimeout, cfg.AI.Timeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "port out of range", env: map[string]string{"PORT": "70000"}},
		{name: "unknown backend", env: map[string]string{"RATE_LIMIT_BACKEND": "memcached"}},
		{name: "redis backend without address", env: map[string]string{"RATE_LIMIT_BACKEND": "redis"}},
		{name: "cache without redis", env: map[string]string{"AI_CACHE_TTL": "1m"}},
		{name: "zero limit", env: map[string]string{"RATE_LIMIT_MAX": "0"}},
		{name: "negative body limit", env: map[string]string{"BODY_LIMIT_BYTES": "-1"}},
		{name: "zero request timeout", env: map[string]string{"REQUEST_TIMEOUT": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
