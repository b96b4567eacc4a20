package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

// CorpusLoadError means the corpus could not be read or parsed. It is fatal.
type CorpusLoadError struct {
	Path string
	Err  error
}

func (e *CorpusLoadError) Error() string {
	return fmt.Sprintf("failed to load corpus %s: %v", e.Path, e.Err)
}

func (e *CorpusLoadError) Unwrap() error {
	return e.Err
}

// EmbeddingErrorKind classifies a per-record embedding failure
type EmbeddingErrorKind string

const (
	EmbeddingTransient EmbeddingErrorKind = "transient"
	EmbeddingExhausted EmbeddingErrorKind = "exhausted"
	EmbeddingPermanent EmbeddingErrorKind = "permanent"
)

// EmbeddingError is a recoverable, per-record failure
type EmbeddingError struct {
	Kind     EmbeddingErrorKind
	Attempts int
	Err      error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding %s after %d attempt(s): %v", e.Kind, e.Attempts, e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

// WriteError is a checkpoint persistence failure. Only Final write errors are fatal.
type WriteError struct {
	Label string
	Final bool
	Err   error
}

func (e *WriteError) Error() string {
	kind := "intermediate"
	if e.Final {
		kind = "final"
	}
	return fmt.Sprintf("%s write %q failed: %v", kind, e.Label, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err must terminate the run with a failure
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var corpusErr *CorpusLoadError
	if stderrors.As(err, &corpusErr) {
		return true
	}

	var writeErr *WriteError
	if stderrors.As(err, &writeErr) {
		return writeErr.Final
	}

	var embedErr *EmbeddingError
	if stderrors.As(err, &embedErr) {
		return false
	}

	// An interrupted run has already written its final checkpoint
	if stderrors.Is(err, context.Canceled) {
		return false
	}

	return true
}
