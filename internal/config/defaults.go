package config

import "time"

// Provider names
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderMock   = "mock"
)

// Pipeline default configuration constants
const (
	// Paths
	DefaultCorpusPath = "public/data/text/rig_veda_texts.json"
	DefaultOutputDir  = "public/data/text"

	// Model defaults
	DefaultOpenAIModel      = "text-embedding-3-small"
	DefaultOpenAIDimensions = 1536
	DefaultGeminiModel      = "text-embedding-004"
	DefaultGeminiDimensions = 768
	DefaultMockDimensions   = 1536

	// Batch defaults
	DefaultCheckpointInterval = 100
	DefaultProgressEvery      = 10
	DefaultRequestDelay       = 100 * time.Millisecond
	DefaultTimeout            = 60 * time.Second

	// Retry defaults
	DefaultMaxAttempts   = 3
	DefaultRateLimitBase = time.Second
	DefaultFixedDelay    = time.Second

	// Integrations
	DefaultCacheTTL      = 30 * 24 * time.Hour
	DefaultCachePrefix   = "vembed:embedding:"
	DefaultDBTable       = "verse_embeddings"
	DefaultMetricsJob    = "vembed"
	DefaultPublishPrefix = "data/text"
)

// ModelDefaults holds the default model and dimensionality of a provider
type ModelDefaults struct {
	Model      string
	Dimensions int
}

// GetModelDefaults returns default model configuration for a given provider type
func GetModelDefaults(provider string) ModelDefaults {
	switch provider {
	case ProviderGemini:
		return ModelDefaults{Model: DefaultGeminiModel, Dimensions: DefaultGeminiDimensions}
	case ProviderMock:
		return ModelDefaults{Model: "mock-model", Dimensions: DefaultMockDimensions}
	default:
		return ModelDefaults{Model: DefaultOpenAIModel, Dimensions: DefaultOpenAIDimensions}
	}
}
