package app

import (
	"context"
	"os"

	"github.com/google/wire"
	"go.uber.org/zap"

	"verse-embed/internal/app/common"
	"verse-embed/internal/app/embedding/orchestrator"
	"verse-embed/internal/app/embedding/provider"
	"verse-embed/internal/app/metrics"
	"verse-embed/internal/app/progress"
	"verse-embed/internal/app/storage/cache"
	"verse-embed/internal/app/storage/publish"
	"verse-embed/internal/app/storage/snapshot"
	"verse-embed/internal/app/storage/vector"
	"verse-embed/internal/config"
)

// ClientSet builds the embedding client from configuration
var ClientSet = wire.NewSet(
	provideZapLogger,
	provideLogger,
	provideEmbeddingProvider,
	provideClient,
)

// PipelineSet builds a complete pipeline
var PipelineSet = wire.NewSet(
	ClientSet,
	provideWriter,
	provideVectorStorage,
	provideRecorder,
	provideSink,
	provideProgressConfig,
	NewPipeline,
)

func provideZapLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	logger, err := common.NewLogger(cfg.Development)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func provideLogger(logger *zap.Logger) common.Logger {
	return common.NewZapLogger(logger)
}

// provideEmbeddingProvider creates the configured provider, behind the Redis
// cache when one is configured
func provideEmbeddingProvider(ctx context.Context, cfg *config.Config, logger common.Logger) (provider.EmbeddingProvider, func(), error) {
	p, err := provider.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	if !cfg.Cache.RedisURL.IsSet() {
		return p, func() {}, nil
	}

	redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL.Value(), cfg.Cache.TTL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Embedding cache enabled", "backend", "redis", "ttl", cfg.Cache.TTL)

	cleanup := func() { _ = redisCache.Close() }
	return provider.NewCachedProvider(p, redisCache, cfg.Cache.Prefix, logger), cleanup, nil
}

func provideClient(p provider.EmbeddingProvider, cfg *config.Config, logger common.Logger) *provider.Client {
	return provider.NewClient(p, cfg.Retry, logger).WithTimeout(cfg.Timeout)
}

func provideWriter(cfg *config.Config, logger common.Logger) *snapshot.Writer {
	return snapshot.NewWriter(cfg.OutputDir, cfg.EmitJS, cfg.EmitHelpers, logger)
}

// provideVectorStorage opens the SQL sink. It returns nil when no database is configured.
func provideVectorStorage(ctx context.Context, cfg *config.Config) (vector.VectorStorage, func(), error) {
	if !cfg.Database.DSN.IsSet() {
		return nil, func() {}, nil
	}

	storage, err := vector.Open(ctx, cfg.Database.Driver, cfg.Database.DSN.Value(), cfg.Database.Table)
	if err != nil {
		return nil, nil, err
	}
	if err := storage.EnsureSchema(ctx); err != nil {
		storage.Close()
		return nil, nil, err
	}
	return storage, func() { _ = storage.Close() }, nil
}

func provideRecorder() *metrics.Recorder {
	return metrics.NewRecorder()
}

// provideSink composes the filesystem writer with the optional SQL and
// object-store sinks. Publishing is best effort and only happens on the final write.
func provideSink(cfg *config.Config, writer *snapshot.Writer, storage vector.VectorStorage, logger common.Logger) (orchestrator.Sink, error) {
	sinks := orchestrator.MultiSink{writer}

	if storage != nil {
		sinks = append(sinks, vector.NewSink(storage))
	}

	if cfg.Publish.Endpoint != "" {
		publisher, err := publish.NewMinioPublisher(cfg.Publish, cfg.OutputDir, logger)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, orchestrator.BestEffort("publish", orchestrator.FinalOnly(publisher), logger))
	}

	return sinks, nil
}

func provideProgressConfig(cfg *config.Config) progress.Config {
	return progress.Config{
		Enabled: progress.ShouldShowProgress(cfg.ShowProgress),
		Writer:  os.Stderr,
	}
}
