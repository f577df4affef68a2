package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/chore-chart/internal/common"
	"github.com/Veraticus/chore-chart/internal/model"
)

// weekTables are cleared before a week is rewritten.
var weekTables = []string{
	"assignments",
	"assignments_timed",
	"hours",
	"shortfalls",
	"schedule_runs",
}

// SaveSchedule replaces everything stored for the schedule's week in one
// transaction. A missing run record is created with a fresh ID.
func (s *SQLiteStorage) SaveSchedule(ctx context.Context, schedule *model.Schedule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if schedule == nil {
		return fmt.Errorf("%w: schedule", ErrNilParameter)
	}
	if err := validateWeek(schedule.WeekStart); err != nil {
		return err
	}

	week := formatWeek(schedule.WeekStart)
	if schedule.Run == nil {
		schedule.Run = &model.ScheduleRun{}
	}
	run := schedule.Run
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.WeekStart = schedule.WeekStart
	run.Shortfalls = len(schedule.Shortfalls)

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range weekTables {
			// #nosec G202 - table names come from a fixed list
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE week_start_date = ?`, week); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		for _, a := range schedule.Timed {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO assignments_timed (week_start_date, person_id, weekday, task_id)
				VALUES (?, ?, ?, ?)
			`, week, a.PersonID, a.Weekday, a.TaskID); err != nil {
				return fmt.Errorf("failed to save timed assignment: %w", err)
			}
		}

		for _, a := range schedule.Chores {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO assignments (week_start_date, person_id, task_type, task_id)
				VALUES (?, ?, ?, ?)
			`, week, a.PersonID, string(a.Kind), a.TaskID); err != nil {
				return fmt.Errorf("failed to save assignment: %w", err)
			}
		}

		for _, h := range schedule.Hours {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO hours (week_start_date, person_id, days_in_town, target_hours,
					leftover_hours, hours_worked)
				VALUES (?, ?, ?, ?, ?, ?)
			`, week, h.PersonID, h.DaysInTown, h.TargetHours, h.LeftoverHours, h.HoursWorked); err != nil {
				return fmt.Errorf("failed to save hours: %w", err)
			}
		}

		for _, sf := range schedule.Shortfalls {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO shortfalls (week_start_date, task, task_type, weekday, reason)
				VALUES (?, ?, ?, ?, ?)
			`, week, sf.Task, string(sf.Kind), sf.Weekday, sf.Reason); err != nil {
				return fmt.Errorf("failed to save shortfall: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO schedule_runs (id, week_start_date, seed, shortfalls, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, run.ID, week, run.Seed, run.Shortfalls, run.CreatedAt); err != nil {
			return fmt.Errorf("failed to save schedule run: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Saved schedule",
		"week", week,
		"run_id", run.ID,
		"timed", len(schedule.Timed),
		"chores", len(schedule.Chores))
	return nil
}

// GetSchedule loads a stored week. It returns common.ErrWeekNotPlanned when
// nothing was saved for it.
func (s *SQLiteStorage) GetSchedule(ctx context.Context, weekStart time.Time) (*model.Schedule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateWeek(weekStart); err != nil {
		return nil, err
	}

	week := formatWeek(weekStart)
	schedule := &model.Schedule{WeekStart: weekStart}

	run := &model.ScheduleRun{WeekStart: weekStart}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seed, shortfalls, created_at FROM schedule_runs WHERE week_start_date = ?
	`, week).Scan(&run.ID, &run.Seed, &run.Shortfalls, &run.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to get schedule run: %w", err)
	default:
		schedule.Run = run
	}

	if err := s.loadTimed(ctx, week, schedule); err != nil {
		return nil, err
	}
	if err := s.loadChores(ctx, week, schedule); err != nil {
		return nil, err
	}
	if err := s.loadHours(ctx, week, schedule); err != nil {
		return nil, err
	}
	if err := s.loadShortfalls(ctx, week, schedule); err != nil {
		return nil, err
	}

	if schedule.Run == nil && len(schedule.Hours) == 0 && len(schedule.Timed) == 0 && len(schedule.Chores) == 0 {
		return nil, fmt.Errorf("%s: %w", week, common.ErrWeekNotPlanned)
	}
	schedule.Sort()
	return schedule, nil
}

func (s *SQLiteStorage) loadTimed(ctx context.Context, week string, schedule *model.Schedule) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT person_id, weekday, task_id FROM assignments_timed
		WHERE week_start_date = ? ORDER BY task_id, weekday
	`, week)
	if err != nil {
		return fmt.Errorf("failed to query timed assignments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		a := model.TimedAssignment{WeekStart: schedule.WeekStart}
		if err := rows.Scan(&a.PersonID, &a.Weekday, &a.TaskID); err != nil {
			return fmt.Errorf("failed to scan timed assignment: %w", err)
		}
		schedule.Timed = append(schedule.Timed, a)
	}
	return rows.Err()
}

func (s *SQLiteStorage) loadChores(ctx context.Context, week string, schedule *model.Schedule) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT person_id, task_type, task_id FROM assignments
		WHERE week_start_date = ? ORDER BY task_type, task_id
	`, week)
	if err != nil {
		return fmt.Errorf("failed to query assignments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		a := model.ChoreAssignment{WeekStart: schedule.WeekStart}
		var kind string
		if err := rows.Scan(&a.PersonID, &kind, &a.TaskID); err != nil {
			return fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.Kind = model.TaskKind(kind)
		schedule.Chores = append(schedule.Chores, a)
	}
	return rows.Err()
}

func (s *SQLiteStorage) loadHours(ctx context.Context, week string, schedule *model.Schedule) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT person_id, days_in_town, target_hours, leftover_hours, hours_worked FROM hours
		WHERE week_start_date = ? ORDER BY person_id
	`, week)
	if err != nil {
		return fmt.Errorf("failed to query hours: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		h := model.HoursRecord{WeekStart: schedule.WeekStart}
		if err := rows.Scan(&h.PersonID, &h.DaysInTown, &h.TargetHours, &h.LeftoverHours, &h.HoursWorked); err != nil {
			return fmt.Errorf("failed to scan hours: %w", err)
		}
		schedule.Hours = append(schedule.Hours, h)
	}
	return rows.Err()
}

func (s *SQLiteStorage) loadShortfalls(ctx context.Context, week string, schedule *model.Schedule) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT task, task_type, weekday, reason FROM shortfalls
		WHERE week_start_date = ? ORDER BY id
	`, week)
	if err != nil {
		return fmt.Errorf("failed to query shortfalls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var sf model.Shortfall
		var kind string
		if err := rows.Scan(&sf.Task, &kind, &sf.Weekday, &sf.Reason); err != nil {
			return fmt.Errorf("failed to scan shortfall: %w", err)
		}
		sf.Kind = model.TaskKind(kind)
		schedule.Shortfalls = append(schedule.Shortfalls, sf)
	}
	return rows.Err()
}

// ListScheduledWeeks returns every week with stored hours, oldest first.
func (s *SQLiteStorage) ListScheduledWeeks(ctx context.Context) ([]time.Time, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT week_start_date FROM hours ORDER BY week_start_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query weeks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var weeks []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan week: %w", err)
		}
		week, err := parseWeek(raw)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, week)
	}
	return weeks, rows.Err()
}

// WeekHasRows reports whether anything is stored for a week.
func (s *SQLiteStorage) WeekHasRows(ctx context.Context, weekStart time.Time) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	week := formatWeek(weekStart)
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM hours WHERE week_start_date = ?)
			OR EXISTS(SELECT 1 FROM assignments WHERE week_start_date = ?)
			OR EXISTS(SELECT 1 FROM assignments_timed WHERE week_start_date = ?)
	`, week, week, week).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check week: %w", err)
	}
	return exists, nil
}
