package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Veraticus/chore-chart/internal/common"
	"github.com/Veraticus/chore-chart/internal/model"
)

// DefaultRunTimeout bounds one scheduled run.
const DefaultRunTimeout = 5 * time.Minute

// Service plans next week's chart on a cron schedule.
type Service struct {
	cron    *cron.Cron
	runner  *Runner
	spec    string
	timeout time.Duration
}

// NewService creates a service that fires on spec, a standard five-field cron expression.
func NewService(runner *Runner, spec string, loc *time.Location) (*Service, error) {
	if loc == nil {
		loc = time.Local
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return &Service{
		cron:    cron.New(cron.WithLocation(loc)),
		runner:  runner,
		spec:    spec,
		timeout: DefaultRunTimeout,
	}, nil
}

// Run starts the cron loop and blocks until ctx is canceled. Running jobs
// are allowed to finish before it returns.
func (s *Service) Run(ctx context.Context) error {
	id, err := s.cron.AddFunc(s.spec, func() { s.runOnce(ctx) })
	if err != nil {
		return fmt.Errorf("failed to schedule weekly run: %w", err)
	}

	s.cron.Start()
	slog.Info("Chore scheduler started", "cron", s.spec, "next_run", s.cron.Entry(id).Next)

	<-ctx.Done()

	slog.Info("Stopping chore scheduler")
	<-s.cron.Stop().Done()
	slog.Info("Chore scheduler stopped")
	return nil
}

// runOnce plans next week. Errors are logged so the loop keeps running.
func (s *Service) runOnce(parent context.Context) {
	if parent.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	week := s.runner.NextWeek()
	plan, err := s.runner.RunWeek(ctx, week)
	if err != nil && plan == nil {
		common.LogError(err, "Scheduled run failed", common.Fields{"week": week.Format(model.WeekLayout)})
		return
	}
	if err != nil {
		slog.Warn("Scheduled run committed but was not published", "week", week.Format(model.WeekLayout), "error", err)
	}
	common.LogInfo("Scheduled run finished", common.Fields{
		"week":         plan.Schedule.Week(),
		"shortfalls":   len(plan.Schedule.Shortfalls),
		"hours_worked": plan.Schedule.TotalHoursWorked(),
	})
}
