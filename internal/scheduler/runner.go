// Package scheduler plans, commits and publishes chore weeks, on demand or
// on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/Veraticus/chore-chart/internal/chart"
	"github.com/Veraticus/chore-chart/internal/engine"
	"github.com/Veraticus/chore-chart/internal/metrics"
	"github.com/Veraticus/chore-chart/internal/model"
	"github.com/Veraticus/chore-chart/internal/service"
	"github.com/Veraticus/chore-chart/internal/storage"
)

// Store is the persistence the runner plans from and commits to.
type Store interface {
	engine.InputSource
	service.ScheduleStore
}

// Checkpointer snapshots the database before a week is replaced.
type Checkpointer interface {
	AutoCheckpoint(ctx context.Context, operation string) (*storage.CheckpointInfo, error)
}

// Plan is a computed week together with the snapshot it was computed from.
type Plan struct {
	Schedule *model.Schedule
	Input    *engine.Input
}

// Chart lays the plan out as a chore chart.
func (p *Plan) Chart(builder *chart.Builder) (*chart.Chart, error) {
	return builder.Build(p.Schedule, p.Input.Catalog, p.Input.People)
}

// Runner runs the engine against a store.
type Runner struct {
	store       Store
	checkpoints Checkpointer
	writer      service.ChartWriter
	recorder    *metrics.Recorder
	builder     *chart.Builder
	now         func() time.Time
	config      engine.Config
}

// Option configures a Runner.
type Option func(*Runner)

// WithCheckpoints snapshots the database before replacing a week that has rows.
func WithCheckpoints(c Checkpointer) Option {
	return func(r *Runner) { r.checkpoints = c }
}

// WithWriter publishes every committed week.
func WithWriter(w service.ChartWriter) Option {
	return func(r *Runner) { r.writer = w }
}

// WithRecorder records run metrics.
func WithRecorder(rec *metrics.Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithBuilder overrides the chart builder used for publishing.
func WithBuilder(b *chart.Builder) Option {
	return func(r *Runner) { r.builder = b }
}

// NewRunner creates a runner.
func NewRunner(store Store, config engine.Config, opts ...Option) *Runner {
	r := &Runner{
		store:   store,
		config:  config,
		builder: chart.NewBuilder(nil),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NextWeek returns the Monday after the runner's current time.
func (r *Runner) NextWeek() time.Time {
	return model.NextMonday(r.now())
}

// NewSeed returns a seed derived from the clock.
func (r *Runner) NewSeed() int64 {
	return r.now().UnixNano()
}

// Plan computes a week without saving it.
func (r *Runner) Plan(ctx context.Context, week time.Time, seed int64) (*Plan, error) {
	input, err := engine.LoadInput(ctx, r.store, week)
	if err != nil {
		return nil, err
	}

	schedule, err := engine.New(r.config, rand.New(rand.NewSource(seed))).Run(ctx, input) // #nosec G404 - reproducible draws, not security
	if err != nil {
		return nil, fmt.Errorf("failed to plan week %s: %w", input.WeekStart.Format(model.WeekLayout), err)
	}
	schedule.Run = &model.ScheduleRun{Seed: seed}
	return &Plan{Schedule: schedule, Input: input}, nil
}

// Commit saves a planned week, checkpointing first when it replaces stored rows.
func (r *Runner) Commit(ctx context.Context, plan *Plan) error {
	week := plan.Schedule.WeekStart
	exists, err := r.store.WeekHasRows(ctx, week)
	if err != nil {
		return fmt.Errorf("failed to check week %s: %w", week.Format(model.WeekLayout), err)
	}

	if exists && r.checkpoints != nil {
		info, err := r.checkpoints.AutoCheckpoint(ctx, "schedule-"+week.Format(model.WeekLayout))
		if err != nil {
			return err
		}
		r.recorder.CheckpointTaken()
		slog.Info("Checkpointed before replacing week", "week", week.Format(model.WeekLayout), "checkpoint", info.ID)
	}

	return r.store.SaveSchedule(ctx, plan.Schedule)
}

// Publish writes a committed week's chart. It does nothing without a writer.
func (r *Runner) Publish(ctx context.Context, plan *Plan) error {
	if r.writer == nil {
		return nil
	}
	c, err := plan.Chart(r.builder)
	if err != nil {
		return fmt.Errorf("failed to build chart: %w", err)
	}
	err = r.writer.Write(ctx, c)
	r.recorder.ObserveExport(err)
	if err != nil {
		return fmt.Errorf("failed to publish chart: %w", err)
	}
	return nil
}

// RunWeek plans, commits and publishes one week. A publish failure is
// returned after the week is committed.
func (r *Runner) RunWeek(ctx context.Context, week time.Time) (*Plan, error) {
	start := r.now()

	plan, err := r.Plan(ctx, week, r.NewSeed())
	if err != nil {
		r.recorder.RunFailed()
		return nil, err
	}
	if err := r.Commit(ctx, plan); err != nil {
		r.recorder.RunFailed()
		return nil, err
	}
	end := r.now()
	r.recorder.ObserveRun(plan.Schedule, end.Sub(start), end)

	if err := r.Publish(ctx, plan); err != nil {
		return plan, err
	}
	return plan, nil
}
