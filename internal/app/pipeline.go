package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"verse-embed/internal/app/common"
	"verse-embed/internal/app/corpus"
	"verse-embed/internal/app/embedding/orchestrator"
	"verse-embed/internal/app/embedding/provider"
	"verse-embed/internal/app/metrics"
	"verse-embed/internal/app/model"
	"verse-embed/internal/app/progress"
	"verse-embed/internal/app/storage/snapshot"
	"verse-embed/internal/app/storage/vector"
	"verse-embed/internal/app/utils"
	"verse-embed/internal/config"
)

// Pipeline is one assembled embedding run
type Pipeline struct {
	cfg      *config.Config
	logger   common.Logger
	client   *provider.Client
	sink     orchestrator.Sink
	storage  vector.VectorStorage
	recorder *metrics.Recorder
	progress progress.Config
}

// NewPipeline creates a pipeline. storage may be nil.
func NewPipeline(
	cfg *config.Config,
	logger common.Logger,
	client *provider.Client,
	sink orchestrator.Sink,
	storage vector.VectorStorage,
	recorder *metrics.Recorder,
	progressConfig progress.Config,
) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		logger:   logger,
		client:   client,
		sink:     sink,
		storage:  storage,
		recorder: recorder,
		progress: progressConfig,
	}
}

// Run loads the corpus, embeds every verse and writes the dataset. The
// returned state is non-nil whenever the final checkpoint was attempted.
func (p *Pipeline) Run(ctx context.Context) (*model.RunState, error) {
	records, err := corpus.Load(p.cfg.CorpusPath)
	if err != nil {
		return nil, err
	}
	corpusHash, _ := utils.CalculateFileHash(p.cfg.CorpusPath)
	corpusSize, _ := utils.GetFileSize(p.cfg.CorpusPath)
	p.logger.Info("Corpus loaded",
		"path", p.cfg.CorpusPath,
		"records", len(records),
		"bytes", corpusSize,
		"sha256", corpusHash)

	info := p.client.Info()
	runID := uuid.NewString()

	var prior map[string][]float32
	if p.cfg.Resume {
		prior = p.loadPrior(ctx, info.Model)
	}

	bar := progress.NewBar(p.progress, len(records), "Embedding verses")
	processor := orchestrator.NewBatchProcessor(p.client, p.sink, p.logger, orchestrator.Options{
		RunID:              runID,
		Model:              info.Model,
		CheckpointInterval: p.cfg.CheckpointInterval,
		ProgressEvery:      p.cfg.ProgressEvery,
		RequestDelay:       p.cfg.RequestDelay,
	}).WithRecorder(p.recorder).WithProgress(bar)

	state, runErr := processor.Run(ctx, records, prior)

	if state != nil && p.cfg.Metrics.PushgatewayURL != "" {
		err := p.recorder.Push(context.WithoutCancel(ctx), p.cfg.Metrics.PushgatewayURL, p.cfg.Metrics.Job, runID)
		if err != nil {
			p.logger.Warn("Metrics push failed", "error", err)
		}
	}

	return state, runErr
}

// loadPrior collects vectors of an earlier run of model, from the dataset
// on disk first and the SQL sink second
func (p *Pipeline) loadPrior(ctx context.Context, modelName string) map[string][]float32 {
	prior := make(map[string][]float32)

	if snapshot.Exists(p.cfg.OutputDir) {
		ds, err := snapshot.Load(p.cfg.OutputDir)
		switch {
		case err != nil:
			p.logger.Warn("Existing dataset unreadable, not resuming from it", "dir", p.cfg.OutputDir, "error", err)
		case ds.Summary.EmbeddingModel != "" && ds.Summary.EmbeddingModel != modelName:
			p.logger.Warn("Existing dataset uses another model, not resuming from it",
				"dataset_model", ds.Summary.EmbeddingModel,
				"model", modelName)
		default:
			for id, vec := range ds.Vectors() {
				prior[id] = vec
			}
		}
	}

	if p.storage != nil {
		stored, err := p.storage.LoadEmbeddings(ctx, modelName)
		if err != nil {
			p.logger.Warn("Stored embeddings unreadable, not resuming from them", "error", err)
		}
		for id, vec := range stored {
			if _, ok := prior[id]; !ok {
				prior[id] = vec
			}
		}
	}

	p.logger.Info("Resuming previous run", "vectors", len(prior))
	return prior
}

// Summary is the one-line outcome printed at the end of a run
func Summary(state *model.RunState) string {
	return fmt.Sprintf("attempted=%d succeeded=%d failed=%d skipped=%d resumed=%d",
		state.Attempted, state.Succeeded, state.Failed, state.Skipped, state.Resumed)
}
