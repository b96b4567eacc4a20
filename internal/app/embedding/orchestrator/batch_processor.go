package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	apperrors "verse-embed/internal/app/errors"
	"verse-embed/internal/app/model"
)

// Options configures a BatchProcessor
type Options struct {
	RunID              string
	Model              string
	CheckpointInterval int
	ProgressEvery      int
	RequestDelay       time.Duration
}

// BatchProcessor embeds records one at a time in input order and writes
// periodic checkpoints plus a final one
type BatchProcessor struct {
	embedder Embedder
	sink     Sink
	logger   Logger
	recorder Recorder
	progress Progress
	limiter  *rate.Limiter
	opts     Options

	now func() time.Time
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(embedder Embedder, sink Sink, logger Logger, opts Options) *BatchProcessor {
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = 10
	}

	limit := rate.Inf
	if opts.RequestDelay > 0 {
		limit = rate.Every(opts.RequestDelay)
	}

	return &BatchProcessor{
		embedder: embedder,
		sink:     sink,
		logger:   logger,
		recorder: nopRecorder{},
		progress: nopProgress{},
		limiter:  rate.NewLimiter(limit, 1),
		opts:     opts,
		now:      time.Now,
	}
}

// WithRecorder sets the event recorder
func (p *BatchProcessor) WithRecorder(r Recorder) *BatchProcessor {
	if r != nil {
		p.recorder = r
	}
	return p
}

// WithProgress sets the progress indicator
func (p *BatchProcessor) WithProgress(pr Progress) *BatchProcessor {
	if pr != nil {
		p.progress = pr
	}
	return p
}

// Run processes records and returns the final run state. prior holds vectors
// of an earlier run keyed by record ID; those records are not embedded again.
//
// Per-record failures never stop the run. A failed intermediate checkpoint is
// logged; a failed final checkpoint is returned as *apperrors.WriteError. When
// ctx is cancelled the loop stops, the final checkpoint is still written and
// the returned error wraps ctx.Err().
func (p *BatchProcessor) Run(ctx context.Context, records []model.VerseRecord, prior map[string][]float32) (*model.RunState, error) {
	if len(records) == 0 {
		return nil, apperrors.ErrNoRecords
	}
	if p.opts.CheckpointInterval < 1 {
		return nil, apperrors.ErrInvalidInterval
	}

	total := len(records)
	state := &model.RunState{
		RunID:     p.opts.RunID,
		Model:     p.opts.Model,
		Results:   make([]model.EmbeddingResult, 0, total),
		StartedAt: p.now(),
	}

	p.logger.Info("Starting embedding run",
		"run_id", state.RunID,
		"model", state.Model,
		"records", total,
		"checkpoint_interval", p.opts.CheckpointInterval,
		"resumable", len(prior))

	for i, record := range records {
		if ctx.Err() != nil {
			state.Cancelled = true
			break
		}

		start := p.now()
		result, resumed := p.process(ctx, record, prior, state.Dimension)
		if result.Status == model.StatusFailed && ctx.Err() != nil {
			// interrupted mid-call, leave it for the next run
			state.Cancelled = true
			break
		}

		state.Record(result)
		if resumed {
			state.Resumed++
		}
		p.recorder.ObserveResult(result, p.now().Sub(start))
		p.progress.Increment()

		done := i + 1
		if done%p.opts.ProgressEvery == 0 || done == total {
			p.logger.Info("Embedding progress",
				"progress", fmt.Sprintf("%d/%d (%.1f%%)", done, total, model.Progress(done, total)),
				"succeeded", state.Succeeded,
				"failed", state.Failed)
		}

		if done%p.opts.CheckpointInterval == 0 && done != total {
			label := fmt.Sprintf("intermediate_%d", done)
			if err := p.write(ctx, label, false, total, state); err != nil {
				p.logger.Error("Intermediate checkpoint failed, continuing",
					"label", label,
					"error", err)
			}
		}
	}

	p.progress.Finish()
	state.FinishedAt = p.now()

	// The final checkpoint must survive cancellation of the run
	if err := p.write(context.WithoutCancel(ctx), "final", true, total, state); err != nil {
		p.logger.Error("Final checkpoint failed", "error", err)
		return state, err
	}

	p.logger.Info("Embedding run finished",
		"run_id", state.RunID,
		"attempted", state.Attempted,
		"succeeded", state.Succeeded,
		"failed", state.Failed,
		"skipped", state.Skipped,
		"resumed", state.Resumed,
		"cancelled", state.Cancelled,
		"duration", state.FinishedAt.Sub(state.StartedAt))

	if state.Cancelled {
		return state, fmt.Errorf("run interrupted after %d of %d records: %w", state.Attempted, total, context.Cause(ctx))
	}
	return state, nil
}

func (p *BatchProcessor) process(ctx context.Context, record model.VerseRecord, prior map[string][]float32, dimension int) (model.EmbeddingResult, bool) {
	result := model.EmbeddingResult{Record: record}

	if vec, ok := prior[record.ID]; ok && len(vec) > 0 && (dimension == 0 || len(vec) == dimension) {
		result.Vector = vec
		result.Status = model.StatusSuccess
		return result, true
	}

	if strings.TrimSpace(record.SearchableText) == "" {
		result.Status = model.StatusSkipped
		result.Err = apperrors.ErrEmptyText.Error()
		return result, false
	}

	if err := p.limiter.Wait(ctx); err != nil {
		result.Status = model.StatusFailed
		result.Err = err.Error()
		return result, false
	}

	vec, err := p.embedder.Embed(ctx, record.SearchableText)
	if err != nil {
		p.logger.Warn("Embedding failed",
			"id", record.ID,
			"error", err)
		result.Status = model.StatusFailed
		result.Err = err.Error()
		return result, false
	}

	if dimension > 0 && len(vec) != dimension {
		err := apperrors.Wrapf(apperrors.ErrDimensionMismatch, "expected %d, got %d", dimension, len(vec))
		p.logger.Warn("Embedding rejected", "id", record.ID, "error", err)
		result.Status = model.StatusFailed
		result.Err = err.Error()
		return result, false
	}

	result.Vector = vec
	result.Status = model.StatusSuccess
	return result, false
}

func (p *BatchProcessor) write(ctx context.Context, label string, final bool, total int, state *model.RunState) error {
	snapshot := &Snapshot{
		Label:     label,
		Final:     final,
		Total:     total,
		State:     state,
		CreatedAt: p.now(),
	}

	err := p.sink.Write(ctx, snapshot)
	p.recorder.ObserveCheckpoint(label, final, err)
	if err != nil {
		return &apperrors.WriteError{Label: label, Final: final, Err: err}
	}

	p.logger.Info("Checkpoint written",
		"label", label,
		"succeeded", state.Succeeded,
		"attempted", state.Attempted)
	return nil
}
