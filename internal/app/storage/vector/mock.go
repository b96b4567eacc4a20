package vector

import (
	"context"
	"sync"

	apperrors "verse-embed/internal/app/errors"
	"verse-embed/internal/app/model"
)

// MemoryStorage is an in-memory VectorStorage for tests and dry runs
type MemoryStorage struct {
	mu         sync.RWMutex
	embeddings map[string]map[string][]float32
	runs       map[string]RunRecord
	upserts    int
}

// NewMemoryStorage creates an empty storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		embeddings: make(map[string]map[string][]float32),
		runs:       make(map[string]RunRecord),
	}
}

func (s *MemoryStorage) EnsureSchema(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStorage) UpsertEmbeddings(ctx context.Context, runID, modelName string, results []model.EmbeddingResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.embeddings[modelName]
	if !ok {
		byID = make(map[string][]float32)
		s.embeddings[modelName] = byID
	}
	for _, r := range results {
		if r.Succeeded() {
			byID[r.Record.ID] = r.Vector
			s.upserts++
		}
	}
	return nil
}

func (s *MemoryStorage) GetEmbedding(ctx context.Context, verseID, modelName string) ([]float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vec, ok := s.embeddings[modelName][verseID]
	if !ok {
		return nil, apperrors.NotFound("embedding", verseID)
	}
	return vec, nil
}

func (s *MemoryStorage) LoadEmbeddings(ctx context.Context, modelName string) (map[string][]float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]float32, len(s.embeddings[modelName]))
	for id, vec := range s.embeddings[modelName] {
		out[id] = vec
	}
	return out, nil
}

func (s *MemoryStorage) RecordRun(ctx context.Context, run RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.RunID] = run
	return nil
}

// Run returns the recorded run
func (s *MemoryStorage) Run(runID string) (RunRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	return run, ok
}

// Upserts counts stored vectors including overwrites
func (s *MemoryStorage) Upserts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.upserts
}

func (s *MemoryStorage) Close() error {
	return nil
}
