package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "verse-embed/internal/app/errors"
	"verse-embed/internal/app/model"
	"verse-embed/internal/app/testutil"
)

type checkpoint struct {
	Label     string
	Final     bool
	Succeeded int
	Attempted int
	Vectors   int
}

// recordingSink copies what it needs because the state keeps changing
type recordingSink struct {
	mu          sync.Mutex
	checkpoints []checkpoint
	failLabels  map[string]error
}

func newRecordingSink() *recordingSink {
	return &recordingSink{failLabels: make(map[string]error)}
}

func (s *recordingSink) Write(ctx context.Context, snapshot *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failLabels[snapshot.Label]; err != nil {
		return err
	}
	s.checkpoints = append(s.checkpoints, checkpoint{
		Label:     snapshot.Label,
		Final:     snapshot.Final,
		Succeeded: snapshot.State.Succeeded,
		Attempted: snapshot.State.Attempted,
		Vectors:   len(snapshot.State.Successes()),
	})
	return nil
}

func (s *recordingSink) labels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.checkpoints))
	for i, c := range s.checkpoints {
		out[i] = c.Label
	}
	return out
}

func newProcessor(embedder Embedder, sink Sink, logger Logger, interval int) *BatchProcessor {
	return NewBatchProcessor(embedder, sink, logger, Options{
		RunID:              "test-run",
		Model:              "fake-model",
		CheckpointInterval: interval,
		ProgressEvery:      10,
	})
}

func TestRunEndToEnd(t *testing.T) {
	embedder := testutil.NewFakeEmbedder(8)
	sink := newRecordingSink()
	logger := testutil.NewMockLogger()

	state, err := newProcessor(embedder, sink, logger, 100).Run(context.Background(), testutil.TestVerses, nil)
	require.NoError(t, err)

	assert.Len(t, embedder.Calls(), 5, "empty verse is never sent")
	for _, text := range embedder.Calls() {
		assert.NotEmpty(t, text)
	}

	assert.Equal(t, 6, state.Attempted)
	assert.Equal(t, 5, state.Succeeded)
	assert.Equal(t, 1, state.Failed)
	assert.Equal(t, 1, state.Skipped)
	assert.Equal(t, 8, state.Dimension)
	assert.Equal(t, "test-run", state.RunID)
	assert.False(t, state.Cancelled)

	require.Len(t, state.Results, 6)
	assert.Equal(t, model.StatusSkipped, state.Results[3].Status)
	assert.Nil(t, state.Results[3].Vector)
	for i, r := range state.Results {
		assert.Equal(t, testutil.TestVerses[i].ID, r.Record.ID, "results keep input order")
	}

	assert.Equal(t, []string{"final"}, sink.labels())
	assert.True(t, logger.ContainsMessage("Embedding progress"))
}

func TestRunCheckpointSchedule(t *testing.T) {
	testCases := []struct {
		name     string
		records  int
		interval int
		expected []string
	}{
		{"250 records every 100", 250, 100, []string{"intermediate_100", "intermediate_200", "final"}},
		{"exact multiple skips last intermediate", 200, 100, []string{"intermediate_100", "final"}},
		{"interval larger than input", 5, 100, []string{"final"}},
		{"interval of one", 3, 1, []string{"intermediate_1", "intermediate_2", "final"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sink := newRecordingSink()
			records := testutil.GenerateVerseRecords(tc.records)

			_, err := newProcessor(testutil.NewFakeEmbedder(4), sink, testutil.NewMockLogger(), tc.interval).
				Run(context.Background(), records, nil)
			require.NoError(t, err)

			assert.Equal(t, tc.expected, sink.labels())
		})
	}
}

func TestRunCheckpointContents(t *testing.T) {
	records := testutil.GenerateVerseRecords(250)
	embedder := testutil.NewFakeEmbedder(4).
		FailOn(records[10].SearchableText, errors.New("boom")).
		FailOn(records[150].SearchableText, errors.New("boom"))
	sink := newRecordingSink()

	_, err := newProcessor(embedder, sink, testutil.NewMockLogger(), 100).Run(context.Background(), records, nil)
	require.NoError(t, err)

	require.Len(t, sink.checkpoints, 3)
	assert.Equal(t, checkpoint{Label: "intermediate_100", Succeeded: 99, Attempted: 100, Vectors: 99}, sink.checkpoints[0])
	assert.Equal(t, checkpoint{Label: "intermediate_200", Succeeded: 198, Attempted: 200, Vectors: 198}, sink.checkpoints[1])
	assert.Equal(t, checkpoint{Label: "final", Final: true, Succeeded: 248, Attempted: 250, Vectors: 248}, sink.checkpoints[2])
}

func TestRunRecordsFailuresAndContinues(t *testing.T) {
	embedder := testutil.NewFakeEmbedder(8).
		FailOn(testutil.TestVerses[1].SearchableText, &apperrors.EmbeddingError{Kind: apperrors.EmbeddingExhausted, Attempts: 3, Err: errors.New("429")})
	logger := testutil.NewMockLogger()

	state, err := newProcessor(embedder, newRecordingSink(), logger, 100).Run(context.Background(), testutil.TestVerses, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, state.Succeeded)
	assert.Equal(t, 2, state.Failed)
	assert.Equal(t, model.StatusFailed, state.Results[1].Status)
	assert.Contains(t, state.Results[1].Err, "exhausted")
	assert.Len(t, logger.GetLogsByLevel(testutil.LogLevelWarn), 1)
}

func TestRunRejectsDimensionChange(t *testing.T) {
	embedder := testutil.NewFakeEmbedder(8).DimensionFor(testutil.TestVerses[2].SearchableText, 16)

	state, err := newProcessor(embedder, newRecordingSink(), testutil.NewMockLogger(), 100).
		Run(context.Background(), testutil.TestVerses, nil)
	require.NoError(t, err)

	assert.Equal(t, model.StatusFailed, state.Results[2].Status)
	assert.Contains(t, state.Results[2].Err, "dimension mismatch")
	for _, r := range state.Successes() {
		assert.Len(t, r.Vector, 8)
	}
}

func TestRunIntermediateWriteFailureIsNotFatal(t *testing.T) {
	sink := newRecordingSink()
	sink.failLabels["intermediate_2"] = errors.New("disk full")
	logger := testutil.NewMockLogger()

	state, err := newProcessor(testutil.NewFakeEmbedder(4), sink, logger, 2).
		Run(context.Background(), testutil.TestVerses, nil)
	require.NoError(t, err)

	assert.Equal(t, 6, state.Attempted)
	assert.Equal(t, []string{"intermediate_4", "final"}, sink.labels())
	assert.True(t, logger.ContainsMessage("Intermediate checkpoint failed"))
}

func TestRunFinalWriteFailureIsFatal(t *testing.T) {
	sink := newRecordingSink()
	sink.failLabels["final"] = errors.New("read-only file system")

	state, err := newProcessor(testutil.NewFakeEmbedder(4), sink, testutil.NewMockLogger(), 100).
		Run(context.Background(), testutil.TestVerses, nil)

	require.Error(t, err)
	assert.NotNil(t, state)
	var writeErr *apperrors.WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.True(t, writeErr.Final)
	assert.True(t, apperrors.IsFatal(err))
}

func TestRunCancellationStillWritesFinal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	embedder := testutil.NewFakeEmbedder(4).OnCall(func(n int, _ string) {
		if n == 3 {
			cancel()
		}
	})
	sink := newRecordingSink()

	state, err := newProcessor(embedder, sink, testutil.NewMockLogger(), 100).Run(ctx, testutil.TestVerses, nil)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, state)
	assert.True(t, state.Cancelled)
	assert.Equal(t, 2, state.Attempted, "the interrupted record is left for the next run")
	require.Len(t, sink.checkpoints, 1)
	assert.Equal(t, "final", sink.checkpoints[0].Label)
	assert.Equal(t, 2, sink.checkpoints[0].Vectors)
}

func TestRunResumesFromPriorVectors(t *testing.T) {
	prior := map[string][]float32{
		testutil.TestVerses[0].ID: testutil.DeterministicVector("earlier", 4),
		testutil.TestVerses[4].ID: testutil.DeterministicVector("earlier", 4),
	}
	embedder := testutil.NewFakeEmbedder(4)

	state, err := newProcessor(embedder, newRecordingSink(), testutil.NewMockLogger(), 100).
		Run(context.Background(), testutil.TestVerses, prior)
	require.NoError(t, err)

	assert.Len(t, embedder.Calls(), 3)
	assert.Equal(t, 2, state.Resumed)
	assert.Equal(t, 5, state.Succeeded)
	assert.Equal(t, prior[testutil.TestVerses[0].ID], state.Results[0].Vector)
}

func TestRunInvalidInput(t *testing.T) {
	p := newProcessor(testutil.NewFakeEmbedder(4), newRecordingSink(), testutil.NewMockLogger(), 100)
	_, err := p.Run(context.Background(), nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrNoRecords)

	p = newProcessor(testutil.NewFakeEmbedder(4), newRecordingSink(), testutil.NewMockLogger(), 0)
	_, err = p.Run(context.Background(), testutil.TestVerses, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInterval)
}

func TestRunThrottlesRemoteCalls(t *testing.T) {
	p := NewBatchProcessor(testutil.NewFakeEmbedder(4), newRecordingSink(), testutil.NewMockLogger(), Options{
		CheckpointInterval: 100,
		RequestDelay:       20 * time.Millisecond,
	})

	start := time.Now()
	_, err := p.Run(context.Background(), testutil.TestVerses[:3], nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

type countingRecorder struct {
	mu          sync.Mutex
	results     map[model.Status]int
	checkpoints []string
}

func (r *countingRecorder) ObserveResult(result model.EmbeddingResult, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[result.Status]++
}

func (r *countingRecorder) ObserveCheckpoint(label string, _ bool, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkpoints = append(r.checkpoints, label)
}

type countingProgress struct {
	increments int
	finished   bool
}

func (p *countingProgress) Increment() { p.increments++ }
func (p *countingProgress) Finish()    { p.finished = true }

func TestRunReportsToRecorderAndProgress(t *testing.T) {
	recorder := &countingRecorder{results: make(map[model.Status]int)}
	progress := &countingProgress{}

	_, err := newProcessor(testutil.NewFakeEmbedder(4), newRecordingSink(), testutil.NewMockLogger(), 4).
		WithRecorder(recorder).
		WithProgress(progress).
		Run(context.Background(), testutil.TestVerses, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, recorder.results[model.StatusSuccess])
	assert.Equal(t, 1, recorder.results[model.StatusSkipped])
	assert.Equal(t, []string{"intermediate_4", "final"}, recorder.checkpoints)
	assert.Equal(t, 6, progress.increments)
	assert.True(t, progress.finished)
}
