// Package metrics collects run metrics and pushes them to a Prometheus push gateway.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"verse-embed/internal/app/model"
)

const namespace = "vembed"

// Recorder implements orchestrator.Recorder on a private registry
type Recorder struct {
	registry *prometheus.Registry

	results     *prometheus.CounterVec
	latency     prometheus.Histogram
	checkpoints *prometheus.CounterVec
	dimension   prometheus.Gauge
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verses_total",
			Help:      "Processed verses by outcome.",
		}, []string{"status"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "embedding_duration_seconds",
			Help:      "Time spent obtaining one embedding, retries included.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		checkpoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkpoints_total",
			Help:      "Checkpoint writes by kind and outcome.",
		}, []string{"kind", "outcome"}),
		dimension: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "embedding_dimension",
			Help:      "Dimension of the vectors produced by the run.",
		}),
	}

	r.registry.MustRegister(r.results, r.latency, r.checkpoints, r.dimension)
	return r
}

// Registry exposes the registry for scraping or tests
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObserveResult(result model.EmbeddingResult, elapsed time.Duration) {
	r.results.WithLabelValues(string(result.Status)).Inc()
	if result.Status == model.StatusSkipped {
		return
	}
	r.latency.Observe(elapsed.Seconds())
	if result.Succeeded() {
		r.dimension.Set(float64(len(result.Vector)))
	}
}

func (r *Recorder) ObserveCheckpoint(label string, final bool, err error) {
	kind := "intermediate"
	if final {
		kind = "final"
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.checkpoints.WithLabelValues(kind, outcome).Inc()
}

// Push sends the collected metrics to the push gateway, grouped by run id
func (r *Recorder) Push(ctx context.Context, url, job, runID string) error {
	err := push.New(url, job).
		Gatherer(r.registry).
		Grouping("run_id", runID).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
