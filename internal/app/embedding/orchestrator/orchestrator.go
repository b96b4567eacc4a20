// Package orchestrator drives the embedding pass over a verse corpus.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"verse-embed/internal/app/model"
)

// Logger interface for dependency injection
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Embedder returns the vector of one text, retrying internally
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Recorder observes run events, typically for metrics
type Recorder interface {
	ObserveResult(result model.EmbeddingResult, elapsed time.Duration)
	ObserveCheckpoint(label string, final bool, err error)
}

// Progress is a visual progress indicator
type Progress interface {
	Increment()
	Finish()
}

// Snapshot is one checkpoint of a run. State is owned by the driver and
// must not be retained after Write returns.
type Snapshot struct {
	Label     string
	Final     bool
	Total     int
	State     *model.RunState
	CreatedAt time.Time
}

// Sink persists checkpoints
type Sink interface {
	Write(ctx context.Context, snapshot *Snapshot) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ctx context.Context, snapshot *Snapshot) error

func (f SinkFunc) Write(ctx context.Context, snapshot *Snapshot) error {
	return f(ctx, snapshot)
}

// MultiSink writes to every sink in order and joins their errors
type MultiSink []Sink

func (m MultiSink) Write(ctx context.Context, snapshot *Snapshot) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, snapshot); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FinalOnly forwards only the final snapshot
func FinalOnly(s Sink) Sink {
	return SinkFunc(func(ctx context.Context, snapshot *Snapshot) error {
		if !snapshot.Final {
			return nil
		}
		return s.Write(ctx, snapshot)
	})
}

// BestEffort logs failures of s instead of returning them
func BestEffort(name string, s Sink, logger Logger) Sink {
	return SinkFunc(func(ctx context.Context, snapshot *Snapshot) error {
		if err := s.Write(ctx, snapshot); err != nil {
			logger.Warn("optional sink failed", "sink", name, "label", snapshot.Label, "error", err)
		}
		return nil
	})
}

type nopRecorder struct{}

func (nopRecorder) ObserveResult(model.EmbeddingResult, time.Duration) {}
func (nopRecorder) ObserveCheckpoint(string, bool, error)              {}

type nopProgress struct{}

func (nopProgress) Increment() {}
func (nopProgress) Finish()    {}
