// Package ai answers free-form questions with a single word using an
// OpenAI-compatible chat completion API.
package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/example/bfhl-service/config"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrUnavailable wraps every failure to obtain an answer.
	ErrUnavailable = errors.New("AI service unavailable")

	// ErrNoCredential is returned before any network call when no API key is set.
	ErrNoCredential = errors.New("AI API key not configured (OPENAI_API_KEY)")
)

// FallbackAnswer is returned when the reply contains no usable word.
const FallbackAnswer = "Unknown"

const (
	promptTemplate = "Answer the following question in exactly one word. No punctuation, no explanation, just one word.\n\nQuestion: %s"
	maxTokens      = 10
)

// ChatCompleter is the subset of *openai.Client the lookup needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client asks one-word questions. It is safe for concurrent use; concurrent
// identical questions share one upstream call.
type Client struct {
	api     ChatCompleter
	model   string
	timeout time.Duration
	hasKey  bool
	cache   *AnswerCache
	group   singleflight.Group
	logger  types.Logger
}

// NewClient builds a client for the configured endpoint. A missing API key is
// not an error here; Ask reports it.
func NewClient(cfg config.AIConfig, logger types.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return newClient(openai.NewClientWithConfig(apiCfg), cfg, logger)
}

func newClient(api ChatCompleter, cfg config.AIConfig, logger types.Logger) *Client {
	model := cfg.Model
	if model == "" {
		model = config.DefaultOpenAIModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultAITimeout
	}
	return &Client{
		api:     api,
		model:   model,
		timeout: timeout,
		hasKey:  cfg.APIKey != "",
		logger:  logger,
	}
}

// SetCache enables the answer cache.
func (c *Client) SetCache(cache *AnswerCache) {
	c.cache = cache
}

// Ask returns a single alphanumeric word answering question. Every error
// wraps ErrUnavailable.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	if !c.hasKey {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, ErrNoCredential)
	}

	key := c.cacheKey(question)
	if c.cache != nil {
		if answer, ok := c.cache.Get(ctx, key); ok {
			return answer, nil
		}
	}

	// Detach from the first caller's cancellation: the flight serves every
	// waiter, so only the timeout bounds it.
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := c.group.Do(key, func() (any, error) {
		answer, err := c.complete(flightCtx, question)
		if err != nil {
			return "", err
		}
		if c.cache != nil {
			c.cache.Set(flightCtx, key, answer)
		}
		return answer, nil
	})
	if err != nil {
		c.logger.Error("AI lookup failed", "error", err, "shared", shared)
		return "", err
	}
	return v.(string), nil
}

func (c *Client) complete(ctx context.Context, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(promptTemplate, question)},
		},
		MaxTokens: maxTokens,
		// A literal 0 is dropped by omitempty and the API would use its default.
		Temperature: math.SmallestNonzeroFloat32,
	})
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return FallbackAnswer, nil
	}
	return ExtractAnswer(resp.Choices[0].Message.Content), nil
}

// ExtractAnswer keeps the ASCII letters and digits of the first
// whitespace-delimited token of reply, or FallbackAnswer if none remain.
func ExtractAnswer(reply string) string {
	fields := strings.Fields(reply)
	if len(fields) == 0 {
		return FallbackAnswer
	}

	var b strings.Builder
	for _, r := range fields[0] {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return FallbackAnswer
	}
	return b.String()
}

func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: upstream returned HTTP %d: %s", ErrUnavailable, apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%w: upstream returned HTTP %d %s", ErrUnavailable, reqErr.HTTPStatusCode, http.StatusText(reqErr.HTTPStatusCode))
	}

	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func (c *Client) cacheKey(question string) string {
	sum := sha256.Sum256([]byte(c.model + "\x00" + question))
	return hex.EncodeToString(sum[:])
}
