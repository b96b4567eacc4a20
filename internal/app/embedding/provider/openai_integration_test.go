//go:build integration
// +build integration

package provider

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verse-embed/internal/config"
)

func TestOpenAIEmbeddingGeneration_Integration(t *testing.T) {
	// Skip if no API key
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set, skipping integration tests")
	}

	p, err := NewOpenAIProvider(apiKey, config.DefaultOpenAIModel, config.DefaultOpenAIDimensions, "")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := NewClient(p, config.Default().Retry, nil)
	vec, err := client.Embed(ctx, "I praise Agni, the chosen priest, god, minister of sacrifice")
	require.NoError(t, err)
	assert.Len(t, vec, config.DefaultOpenAIDimensions)
}

func TestGeminiEmbeddingGeneration_Integration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set, skipping integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p, err := NewGeminiProvider(ctx, apiKey, config.DefaultGeminiModel, config.DefaultGeminiDimensions, "")
	require.NoError(t, err)

	vec, err := NewClient(p, config.Default().Retry, nil).Embed(ctx, "Indra, the thunderer")
	require.NoError(t, err)
	assert.Len(t, vec, config.DefaultGeminiDimensions)
}
