package provider

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu      sync.Mutex
	items   map[string][]float32
	failGet bool
}

func (c *mapCache) Get(_ context.Context, key string) ([]float32, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, false, errors.New("cache down")
	}
	v, ok := c.items[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, vec []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = vec
	return nil
}

func TestCachedProviderServesRepeats(t *testing.T) {
	next := &mockEmbeddingProvider{}
	next.On("GenerateEmbedding", mock.Anything, "hymn").Return([]float32{1, 2}, nil).Once()

	cache := &mapCache{items: map[string][]float32{}}
	p := NewCachedProvider(next, cache, "test:", nil)

	for i := 0; i < 3; i++ {
		vec, err := p.GenerateEmbedding(context.Background(), "hymn")
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 2}, vec)
	}
	next.AssertNumberOfCalls(t, "GenerateEmbedding", 1)
	assert.Contains(t, cache.items, CacheKey("test:", "fake-model", "hymn"))
}

func TestCachedProviderIgnoresWrongDimension(t *testing.T) {
	next := &mockEmbeddingProvider{}
	next.On("GenerateEmbedding", mock.Anything, "hymn").Return([]float32{1, 2}, nil).Once()

	cache := &mapCache{items: map[string][]float32{
		CacheKey("test:", "fake-model", "hymn"): {9, 9, 9},
	}}

	vec, err := NewCachedProvider(next, cache, "test:", nil).GenerateEmbedding(context.Background(), "hymn")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, vec)
}

func TestCachedProviderSurvivesCacheFailure(t *testing.T) {
	next := &mockEmbeddingProvider{}
	next.On("GenerateEmbedding", mock.Anything, "hymn").Return([]float32{1, 2}, nil)

	cache := &mapCache{items: map[string][]float32{}, failGet: true}

	vec, err := NewCachedProvider(next, cache, "test:", nil).GenerateEmbedding(context.Background(), "hymn")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, vec)
}

func TestCacheKeyDependsOnModel(t *testing.T) {
	assert.NotEqual(t, CacheKey("p:", "a", "text"), CacheKey("p:", "b", "text"))
	assert.Equal(t, CacheKey("p:", "a", "text"), CacheKey("p:", "a", "text"))
}
