// Package snapshot turns run state into the static dataset files consumed by the front end.
package snapshot

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"verse-embed/internal/app/model"
)

// File names inside the output directory
const (
	EmbeddingsJSON = "embeddings.json"
	IndexJSON      = "verses_index.json"
	MetadataJSON   = "embeddings_metadata.json"
	EmbeddingsJS   = "embeddings.js"
	IndexJS        = "verses_index.js"
	SearchUtilsJS  = "searchUtils.js"
	SearchUtilsDTS = "searchUtils.d.ts"
)

// FileNames lists every file a dataset may contain. The metadata file comes
// last so consumers that poll it see a complete dataset.
var FileNames = []string{
	EmbeddingsJSON,
	IndexJSON,
	EmbeddingsJS,
	IndexJS,
	SearchUtilsJS,
	SearchUtilsDTS,
	MetadataJSON,
}

// CreatedAtLayout is the timestamp layout of Summary.CreatedAt
const CreatedAtLayout = "20060102_150405"

// IndexEntry is the display metadata of one matrix row
type IndexEntry struct {
	ID              string `json:"id"`
	Index           int    `json:"index"`
	Mandala         int    `json:"mandala"`
	Hymn            int    `json:"hymn"`
	Verse           int    `json:"verse"`
	Title           string `json:"title"`
	Sanskrit        string `json:"sanskrit"`
	Transliteration string `json:"transliteration"`
	Translation     string `json:"translation"`
}

// Summary is the run metadata written next to the matrix
type Summary struct {
	CreatedAt          string            `json:"created_at"`
	RunID              string            `json:"run_id,omitempty"`
	Label              string            `json:"label"`
	Final              bool              `json:"final"`
	TotalVerses        int               `json:"total_verses"`
	EmbeddingModel     string            `json:"embedding_model"`
	EmbeddingDimension int               `json:"embedding_dimension"`
	Attempted          int               `json:"attempted"`
	Succeeded          int               `json:"succeeded"`
	Failed             int               `json:"failed"`
	Skipped            int               `json:"skipped"`
	Resumed            int               `json:"resumed,omitempty"`
	Description        string            `json:"description"`
	Files              map[string]string `json:"files"`
}

// Dataset is a matrix with its aligned index and summary. Row i of Matrix
// belongs to Index[i].
type Dataset struct {
	Matrix  [][]float32
	Index   []IndexEntry
	Summary Summary
}

// Meta describes the run a dataset is built from
type Meta struct {
	RunID     string
	Model     string
	Label     string
	Final     bool
	CreatedAt time.Time
	Attempted int
	Succeeded int
	Failed    int
	Skipped   int
	Resumed   int
}

// MetaFromState copies the counters of state
func MetaFromState(state *model.RunState, label string, final bool, createdAt time.Time) Meta {
	return Meta{
		RunID:     state.RunID,
		Model:     state.Model,
		Label:     label,
		Final:     final,
		CreatedAt: createdAt,
		Attempted: state.Attempted,
		Succeeded: state.Succeeded,
		Failed:    state.Failed,
		Skipped:   state.Skipped,
		Resumed:   state.Resumed,
	}
}

// Build keeps only successful results, in production order
func Build(results []model.EmbeddingResult, meta Meta) *Dataset {
	successes := lo.Filter(results, func(r model.EmbeddingResult, _ int) bool {
		return r.Succeeded()
	})

	ds := &Dataset{
		Matrix: make([][]float32, len(successes)),
		Index:  make([]IndexEntry, len(successes)),
	}
	for i, r := range successes {
		ds.Matrix[i] = r.Vector
		ds.Index[i] = newIndexEntry(i, r.Record)
	}

	ds.Summary = Summary{
		CreatedAt:          meta.CreatedAt.Format(CreatedAtLayout),
		RunID:              meta.RunID,
		Label:              meta.Label,
		Final:              meta.Final,
		TotalVerses:        len(successes),
		EmbeddingModel:     meta.Model,
		EmbeddingDimension: ds.Dimension(),
		Attempted:          meta.Attempted,
		Succeeded:          meta.Succeeded,
		Failed:             meta.Failed,
		Skipped:            meta.Skipped,
		Resumed:            meta.Resumed,
		Description:        fmt.Sprintf("%s embeddings for Rig Veda verses", meta.Model),
		Files: map[string]string{
			"embeddings_json": EmbeddingsJSON,
			"verses_json":     IndexJSON,
		},
	}
	return ds
}

func newIndexEntry(i int, r model.VerseRecord) IndexEntry {
	return IndexEntry{
		ID:              r.ID,
		Index:           i,
		Mandala:         r.Display.Mandala,
		Hymn:            r.Display.Hymn,
		Verse:           r.Display.Verse,
		Title:           r.Display.Title,
		Sanskrit:        r.Display.Sanskrit,
		Transliteration: r.Display.Transliteration,
		Translation:     r.Display.Translation,
	}
}

// Dimension is the vector length, 0 for an empty dataset
func (d *Dataset) Dimension() int {
	if len(d.Matrix) == 0 {
		return 0
	}
	return len(d.Matrix[0])
}

// Vectors maps verse IDs to their vectors
func (d *Dataset) Vectors() map[string][]float32 {
	out := make(map[string][]float32, len(d.Index))
	for i, entry := range d.Index {
		if i < len(d.Matrix) {
			out[entry.ID] = d.Matrix[i]
		}
	}
	return out
}

// Validate checks matrix and index alignment
func (d *Dataset) Validate() error {
	if len(d.Matrix) != len(d.Index) {
		return fmt.Errorf("matrix has %d rows but index has %d entries", len(d.Matrix), len(d.Index))
	}
	dim := d.Dimension()
	for i, row := range d.Matrix {
		if len(row) != dim {
			return fmt.Errorf("row %d has dimension %d, expected %d", i, len(row), dim)
		}
		if d.Index[i].Index != i {
			return fmt.Errorf("index entry %s points at row %d, expected %d", d.Index[i].ID, d.Index[i].Index, i)
		}
	}
	return nil
}
