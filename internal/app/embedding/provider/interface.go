package provider

import "context"

// EmbeddingProvider turns a single text into a dense vector
type EmbeddingProvider interface {
	// GenerateEmbedding makes one remote (or local) embedding call, no retries
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// GetProviderInfo returns metadata about the provider
	GetProviderInfo() ProviderInfo
}

// ProviderInfo contains metadata about an embedding provider
type ProviderInfo struct {
	Name      string // Provider name (e.g., "openai", "gemini")
	Model     string // Model identifier (e.g., "text-embedding-3-small")
	Dimension int    // Expected vector length, 0 when unknown
}
