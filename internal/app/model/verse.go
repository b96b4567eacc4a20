package model

import (
	"time"

	"github.com/samber/lo"
)

// DisplayFields holds the presentation metadata of a verse. None of it is sent to the embedding API.
type DisplayFields struct {
	Mandala         int
	Hymn            int
	Verse           int
	Title           string
	Sanskrit        string
	Transliteration string
	Translation     string
}

// VerseRecord is one unit of text to embed
type VerseRecord struct {
	ID             string
	SearchableText string
	Display        DisplayFields
}

// Status is the outcome of one embedding attempt
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// EmbeddingResult pairs a record with its vector. Vector is nil unless Status is StatusSuccess.
type EmbeddingResult struct {
	Record VerseRecord
	Vector []float32
	Status Status
	Err    string
}

// Succeeded reports whether the result carries a usable vector
func (r EmbeddingResult) Succeeded() bool {
	return r.Status == StatusSuccess && len(r.Vector) > 0
}

// RunState is the accumulated state of a single pipeline run
type RunState struct {
	RunID   string
	Model   string
	Results []EmbeddingResult

	Attempted int
	Succeeded int
	Failed    int // includes Skipped
	Skipped   int
	Resumed   int

	Dimension  int
	StartedAt  time.Time
	FinishedAt time.Time
	Cancelled  bool
}

// Record appends a result and updates the counters
func (s *RunState) Record(result EmbeddingResult) {
	s.Results = append(s.Results, result)
	s.Attempted++

	switch result.Status {
	case StatusSuccess:
		s.Succeeded++
		if s.Dimension == 0 {
			s.Dimension = len(result.Vector)
		}
	case StatusSkipped:
		s.Skipped++
		s.Failed++
	default:
		s.Failed++
	}
}

// Successes returns the successful results in production order
func (s *RunState) Successes() []EmbeddingResult {
	return lo.Filter(s.Results, func(r EmbeddingResult, _ int) bool {
		return r.Succeeded()
	})
}

// Progress returns the percentage of processed records
func Progress(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}
