// Package metrics exposes Prometheus metrics for scheduled chart runs.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Veraticus/chore-chart/internal/model"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "chores"

// Run and export outcomes.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Recorder records run outcomes on a private registry. A nil *Recorder
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	runs        *prometheus.CounterVec
	exports     *prometheus.CounterVec
	assignments *prometheus.GaugeVec
	shortfalls  prometheus.Gauge
	hoursWorked prometheus.Gauge
	lastRun     prometheus.Gauge
	runDuration prometheus.Histogram
	checkpoints prometheus.Counter
}

// NewRecorder creates a recorder. An empty namespace uses DefaultNamespace.
func NewRecorder(namespace string) *Recorder {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total scheduling runs by result.",
		}, []string{"result"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Total chart exports by result.",
		}, []string{"result"}),
		assignments: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "assignments",
			Help:      "Assignments in the last committed week by task kind.",
		}, []string{"kind"}),
		shortfalls: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "shortfalls",
			Help:      "Unfilled slots in the last committed week.",
		}),
		hoursWorked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hours_worked",
			Help:      "Total hours assigned in the last committed week.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of scheduling runs in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms .. ~5s
		}),
		checkpoints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_checkpoints_total",
			Help:      "Automatic checkpoints taken before replacing a week.",
		}),
	}

	r.registry.MustRegister(
		r.runs,
		r.exports,
		r.assignments,
		r.shortfalls,
		r.hoursWorked,
		r.lastRun,
		r.runDuration,
		r.checkpoints,
	)
	return r
}

// Registry returns the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRun records a committed schedule.
func (r *Recorder) ObserveRun(schedule *model.Schedule, took time.Duration, at time.Time) {
	if r == nil || schedule == nil {
		return
	}
	r.runs.WithLabelValues(ResultSuccess).Inc()
	r.runDuration.Observe(took.Seconds())
	r.lastRun.Set(float64(at.Unix()))

	r.assignments.WithLabelValues(string(model.TaskKindDaily)).Set(float64(len(schedule.Timed)))
	counts := make(map[model.TaskKind]int)
	for _, c := range schedule.Chores {
		counts[c.Kind]++
	}
	for _, kind := range model.TaskKinds[1:] {
		r.assignments.WithLabelValues(string(kind)).Set(float64(counts[kind]))
	}
	r.shortfalls.Set(float64(len(schedule.Shortfalls)))
	r.hoursWorked.Set(schedule.TotalHoursWorked())
}

// RunFailed records a run that did not commit.
func (r *Recorder) RunFailed() {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(ResultFailure).Inc()
}

// ObserveExport records an export attempt.
func (r *Recorder) ObserveExport(err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.exports.WithLabelValues(ResultFailure).Inc()
		return
	}
	r.exports.WithLabelValues(ResultSuccess).Inc()
}

// CheckpointTaken records an automatic checkpoint.
func (r *Recorder) CheckpointTaken() {
	if r == nil {
		return
	}
	r.checkpoints.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is canceled.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Serving metrics", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop metrics server: %w", err)
		}
		return nil
	}
}
