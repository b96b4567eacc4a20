package provider

import (
	"context"

	"verse-embed/internal/app/common"
	"verse-embed/internal/app/utils"
)

// Cache stores vectors by key
type Cache interface {
	Get(ctx context.Context, key string) ([]float32, bool, error)
	Set(ctx context.Context, key string, vector []float32) error
}

// CachedProvider serves repeated texts from a Cache. Cache failures are
// logged and never fail the call.
type CachedProvider struct {
	next   EmbeddingProvider
	cache  Cache
	prefix string
	logger common.Logger
}

// NewCachedProvider wraps next with cache
func NewCachedProvider(next EmbeddingProvider, cache Cache, prefix string, logger common.Logger) *CachedProvider {
	if logger == nil {
		logger = common.NopLogger{}
	}
	return &CachedProvider{next: next, cache: cache, prefix: prefix, logger: logger}
}

// CacheKey is the cache key for text embedded with model
func CacheKey(prefix, model, text string) string {
	return prefix + model + ":" + utils.HashText(text)
}

func (c *CachedProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	info := c.next.GetProviderInfo()
	key := CacheKey(c.prefix, info.Model, text)

	vec, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("embedding cache read failed", "error", err)
	}
	if ok && (info.Dimension == 0 || len(vec) == info.Dimension) {
		return vec, nil
	}

	vec, err = c.next.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, vec); err != nil {
		c.logger.Warn("embedding cache write failed", "error", err)
	}
	return vec, nil
}

func (c *CachedProvider) GetProviderInfo() ProviderInfo {
	return c.next.GetProviderInfo()
}
