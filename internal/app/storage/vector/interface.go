package vector

import (
	"context"
	"time"

	"verse-embed/internal/app/model"
)

// VectorStorage persists verse embeddings keyed by verse ID and model
type VectorStorage interface {
	// Schema
	EnsureSchema(ctx context.Context) error

	// Embedding operations
	UpsertEmbeddings(ctx context.Context, runID, modelName string, results []model.EmbeddingResult) error
	GetEmbedding(ctx context.Context, verseID, modelName string) ([]float32, error)
	LoadEmbeddings(ctx context.Context, modelName string) (map[string][]float32, error)

	// Run bookkeeping
	RecordRun(ctx context.Context, run RunRecord) error

	// Lifecycle
	Close() error
}

// RunRecord is the latest checkpoint of a run
type RunRecord struct {
	RunID     string
	Model     string
	Label     string
	Final     bool
	Attempted int
	Succeeded int
	Failed    int
	Skipped   int
	UpdatedAt time.Time
}
