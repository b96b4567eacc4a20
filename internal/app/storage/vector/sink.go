package vector

import (
	"context"
	"sync"

	"verse-embed/internal/app/embedding/orchestrator"
)

// Sink writes checkpoints to a VectorStorage incrementally: each write only
// stores results produced since the previous successful write.
type Sink struct {
	storage VectorStorage

	mu      sync.Mutex
	written int
}

// NewSink creates a storage-backed checkpoint sink
func NewSink(storage VectorStorage) *Sink {
	return &Sink{storage: storage}
}

// Write implements orchestrator.Sink
func (s *Sink) Write(ctx context.Context, snapshot *orchestrator.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := snapshot.State
	if s.written > len(state.Results) {
		s.written = 0
	}
	pending := state.Results[s.written:]

	if err := s.storage.UpsertEmbeddings(ctx, state.RunID, state.Model, pending); err != nil {
		return err
	}
	s.written = len(state.Results)

	return s.storage.RecordRun(ctx, RunRecord{
		RunID:     state.RunID,
		Model:     state.Model,
		Label:     snapshot.Label,
		Final:     snapshot.Final,
		Attempted: state.Attempted,
		Succeeded: state.Succeeded,
		Failed:    state.Failed,
		Skipped:   state.Skipped,
		UpdatedAt: snapshot.CreatedAt,
	})
}
