package ai

import (
	"context"
	"time"

	"github.com/go-monolith/mono/pkg/types"
)

const answerKeyPrefix = "bfhl:ai:answer:"

// answerStore is the part of mono's storage.Storage the cache uses.
type answerStore interface {
	GetWithContext(ctx context.Context, key string) ([]byte, error)
	SetWithContext(ctx context.Context, key string, val []byte, exp time.Duration) error
	Close() error
}

// AnswerCache keeps cleaned answers for a fixed TTL (cache-aside). Store
// errors are logged and treated as misses; they never fail a lookup.
type AnswerCache struct {
	store  answerStore
	ttl    time.Duration
	logger types.Logger
}

// NewAnswerCache wraps store.
func NewAnswerCache(store answerStore, ttl time.Duration, logger types.Logger) *AnswerCache {
	return &AnswerCache{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached answer for key.
func (c *AnswerCache) Get(ctx context.Context, key string) (string, bool) {
	data, err := c.store.GetWithContext(ctx, answerKeyPrefix+key)
	if err != nil {
		c.logger.Warn("Answer cache read failed", "error", err)
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}
	c.logger.Debug("Answer cache hit", "key", key)
	return string(data), true
}

// Set stores answer under key.
func (c *AnswerCache) Set(ctx context.Context, key, answer string) {
	if err := c.store.SetWithContext(ctx, answerKeyPrefix+key, []byte(answer), c.ttl); err != nil {
		c.logger.Warn("Answer cache write failed", "error", err)
	}
}

// Close closes the underlying store.
func (c *AnswerCache) Close() error {
	return c.store.Close()
}
