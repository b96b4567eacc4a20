package provider

import (
	"context"
	"crypto/sha256"
	"strings"

	apperrors "verse-embed/internal/app/errors"
)

// MockProvider produces deterministic vectors from a SHA-256 of the text.
// It backs offline runs and tests.
type MockProvider struct {
	model     string
	dimension int
}

// NewMockProvider creates a new mock provider with specified dimension
func NewMockProvider(dimension int) *MockProvider {
	return &MockProvider{model: "mock-model", dimension: dimension}
}

// GenerateEmbedding generates deterministic embeddings based on SHA256 hash
func (m *MockProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ErrEmptyText
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.dimension <= 0 {
		return nil, apperrors.ErrEmptyResponse
	}

	hash := sha256.Sum256([]byte(text))
	embedding := make([]float32, m.dimension)

	// Map each byte into [-1, 1]
	for i := 0; i < m.dimension; i++ {
		embedding[i] = (float32(hash[i%len(hash)])/255.0)*2 - 1
	}

	return embedding, nil
}

// GetProviderInfo returns mock provider information
func (m *MockProvider) GetProviderInfo() ProviderInfo {
	return ProviderInfo{
		Name:      "mock",
		Model:     m.model,
		Dimension: m.dimension,
	}
}
