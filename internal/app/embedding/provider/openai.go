package provider

import (
	"context"
	"strings"

	"github.com/sashabaranov/go-openai"

	apperrors "verse-embed/internal/app/errors"
)

// OpenAIProvider implements EmbeddingProvider using the OpenAI embeddings API
type OpenAIProvider struct {
	client    *openai.Client
	model     string
	dimension int
}

// NewOpenAIProvider creates a new OpenAI embedding provider.
// baseURL is optional and points the client at a compatible endpoint.
func NewOpenAIProvider(apiKey, model string, dimension int, baseURL string) (*OpenAIProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apperrors.ErrMissingAPIKey
	}
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}

	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		dimension: dimension,
	}, nil
}

// GenerateEmbedding generates an embedding using OpenAI API
func (o *OpenAIProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ErrEmptyText
	}

	request := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          openai.EmbeddingModel(o.model),
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if o.dimension > 0 {
		request.Dimensions = o.dimension
	}

	response, err := o.client.CreateEmbeddings(ctx, request)
	if err != nil {
		return nil, err
	}

	if len(response.Data) == 0 || len(response.Data[0].Embedding) == 0 {
		return nil, apperrors.ErrEmptyResponse
	}

	return checkDimension(response.Data[0].Embedding, o.dimension)
}

// GetProviderInfo returns information about the OpenAI provider
func (o *OpenAIProvider) GetProviderInfo() ProviderInfo {
	return ProviderInfo{
		Name:      "openai",
		Model:     o.model,
		Dimension: o.dimension,
	}
}

func checkDimension(vec []float32, expected int) ([]float32, error) {
	if expected > 0 && len(vec) != expected {
		return nil, apperrors.Wrapf(apperrors.ErrDimensionMismatch, "expected %d, got %d", expected, len(vec))
	}
	return vec, nil
}
