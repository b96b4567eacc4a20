//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"verse-embed/internal/app/embedding/provider"
	"verse-embed/internal/config"
)

// InitializePipeline assembles a pipeline from cfg. The cleanup function
// releases the logger, cache and database connections.
func InitializePipeline(ctx context.Context, cfg *config.Config) (*Pipeline, func(), error) {
	wire.Build(PipelineSet)
	return &Pipeline{}, nil, nil
}

// InitializeClient assembles only the retrying embedding client
func InitializeClient(ctx context.Context, cfg *config.Config) (*provider.Client, func(), error) {
	wire.Build(ClientSet)
	return &provider.Client{}, nil, nil
}
