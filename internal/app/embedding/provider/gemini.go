package provider

import (
	"context"
	"strings"

	"google.golang.org/genai"

	apperrors "verse-embed/internal/app/errors"
)

// GeminiProvider implements EmbeddingProvider using the Gemini API
type GeminiProvider struct {
	client    *genai.Client
	model     string
	dimension int
}

// NewGeminiProvider creates a new Gemini embedding provider
func NewGeminiProvider(ctx context.Context, apiKey, model string, dimension int, baseURL string) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apperrors.ErrMissingAPIKey
	}
	if model == "" {
		model = "text-embedding-004"
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create gemini client")
	}

	return &GeminiProvider{
		client:    client,
		model:     model,
		dimension: dimension,
	}, nil
}

// GenerateEmbedding generates an embedding using Gemini API
func (g *GeminiProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ErrEmptyText
	}

	var config *genai.EmbedContentConfig
	if g.dimension > 0 {
		dims := int32(g.dimension)
		config = &genai.EmbedContentConfig{OutputDimensionality: &dims}
	}

	response, err := g.client.Models.EmbedContent(ctx, g.model, genai.Text(text), config)
	if err != nil {
		return nil, err
	}

	if response == nil || len(response.Embeddings) == 0 || response.Embeddings[0] == nil ||
		len(response.Embeddings[0].Values) == 0 {
		return nil, apperrors.ErrEmptyResponse
	}

	return checkDimension(response.Embeddings[0].Values, g.dimension)
}

// GetProviderInfo returns information about the Gemini provider
func (g *GeminiProvider) GetProviderInfo() ProviderInfo {
	return ProviderInfo{
		Name:      "gemini",
		Model:     g.model,
		Dimension: g.dimension,
	}
}
