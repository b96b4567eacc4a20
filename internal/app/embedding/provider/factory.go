package provider

import (
	"context"

	apperrors "verse-embed/internal/app/errors"
	"verse-embed/internal/config"
)

// New creates the provider named by cfg.Provider
func New(ctx context.Context, cfg *config.Config) (EmbeddingProvider, error) {
	if err := config.RequireAPIKey(&cfg.APIKeys, cfg.Provider, cfg.BaseURL); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKeys.OpenAI.Value(), cfg.Model, cfg.Dimensions, cfg.BaseURL)
	case config.ProviderGemini:
		return NewGeminiProvider(ctx, cfg.APIKeys.Gemini.Value(), cfg.Model, cfg.Dimensions, cfg.BaseURL)
	case config.ProviderMock:
		return NewMockProvider(cfg.Dimensions), nil
	default:
		return nil, apperrors.Wrapf(apperrors.ErrProviderNotFound, "%q", cfg.Provider)
	}
}
