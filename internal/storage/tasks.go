package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Veraticus/chore-chart/internal/model"
)

// GetCatalog loads all four task lists, each ordered by ID.
func (s *SQLiteStorage) GetCatalog(ctx context.Context) (*model.Catalog, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	catalog := &model.Catalog{}
	loaders := []func(context.Context, *model.Catalog) error{
		s.loadDailyTasks,
		s.loadWeeklyTasks,
		s.loadSeasonalTasks,
		s.loadOccasionalTasks,
	}
	for _, load := range loaders {
		if err := load(ctx, catalog); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

func (s *SQLiteStorage) loadDailyTasks(ctx context.Context, catalog *model.Catalog) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task, category, description, duration_hours, rotation
		FROM daily_tasks ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("failed to query daily tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		t := model.Task{Kind: model.TaskKindDaily}
		var rotation string
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.DurationHours, &rotation); err != nil {
			return fmt.Errorf("failed to scan daily task: %w", err)
		}
		if t.Rotation, err = model.ParseRotation(rotation); err != nil {
			return fmt.Errorf("daily task %q: %w", t.Name, err)
		}
		catalog.Add(t)
	}
	return rows.Err()
}

func (s *SQLiteStorage) loadWeeklyTasks(ctx context.Context, catalog *model.Catalog) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task, category, description, duration_hours
		FROM weekly_tasks ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("failed to query weekly tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		t := model.Task{Kind: model.TaskKindWeekly}
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.DurationHours); err != nil {
			return fmt.Errorf("failed to scan weekly task: %w", err)
		}
		catalog.Add(t)
	}
	return rows.Err()
}

func (s *SQLiteStorage) loadSeasonalTasks(ctx context.Context, catalog *model.Catalog) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task, category, description, duration_hours,
			start_date, end_date, frequency_days, last_performed
		FROM seasonal_tasks ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("failed to query seasonal tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		t := model.Task{Kind: model.TaskKindSeasonal}
		var start, end string
		var last sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.DurationHours,
			&start, &end, &t.FrequencyDays, &last); err != nil {
			return fmt.Errorf("failed to scan seasonal task: %w", err)
		}

		window := &model.SeasonWindow{}
		if window.StartMonth, window.StartDay, err = model.ParseMonthDay(start); err != nil {
			return fmt.Errorf("seasonal task %q: %w", t.Name, err)
		}
		if window.EndMonth, window.EndDay, err = model.ParseMonthDay(end); err != nil {
			return fmt.Errorf("seasonal task %q: %w", t.Name, err)
		}
		t.Season = window

		if t.LastPerformed, err = parseNullDate(last); err != nil {
			return fmt.Errorf("seasonal task %q: %w", t.Name, err)
		}
		catalog.Add(t)
	}
	return rows.Err()
}

func (s *SQLiteStorage) loadOccasionalTasks(ctx context.Context, catalog *model.Catalog) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task, category, description, duration_hours, frequency_weeks, last_performed
		FROM occasional_tasks ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("failed to query occasional tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		t := model.Task{Kind: model.TaskKindOccasional}
		var last sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.DurationHours,
			&t.FrequencyWeeks, &last); err != nil {
			return fmt.Errorf("failed to scan occasional task: %w", err)
		}
		if t.LastPerformed, err = parseNullDate(last); err != nil {
			return fmt.Errorf("occasional task %q: %w", t.Name, err)
		}
		catalog.Add(t)
	}
	return rows.Err()
}

// UpsertTask writes a task into the table for its kind. A zero ID is
// assigned by the database and written back.
func (s *SQLiteStorage) UpsertTask(ctx context.Context, task *model.Task) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTask(task); err != nil {
		return err
	}

	var id any
	if task.ID != 0 {
		id = task.ID
	}

	var (
		result sql.Result
		err    error
	)
	switch task.Kind {
	case model.TaskKindDaily:
		result, err = s.db.ExecContext(ctx, `
			INSERT INTO daily_tasks (id, task, category, description, duration_hours, rotation)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				task = excluded.task,
				category = excluded.category,
				description = excluded.description,
				duration_hours = excluded.duration_hours,
				rotation = excluded.rotation
		`, id, task.Name, task.Category, task.Description, task.DurationHours, string(task.Rotation))
	case model.TaskKindWeekly:
		result, err = s.db.ExecContext(ctx, `
			INSERT INTO weekly_tasks (id, task, category, description, duration_hours)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				task = excluded.task,
				category = excluded.category,
				description = excluded.description,
				duration_hours = excluded.duration_hours
		`, id, task.Name, task.Category, task.Description, task.DurationHours)
	case model.TaskKindSeasonal:
		result, err = s.db.ExecContext(ctx, `
			INSERT INTO seasonal_tasks (id, task, category, description, duration_hours,
				start_date, end_date, frequency_days, last_performed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				task = excluded.task,
				category = excluded.category,
				description = excluded.description,
				duration_hours = excluded.duration_hours,
				start_date = excluded.start_date,
				end_date = excluded.end_date,
				frequency_days = excluded.frequency_days,
				last_performed = excluded.last_performed
		`, id, task.Name, task.Category, task.Description, task.DurationHours,
			formatMonthDay(task.Season.StartMonth, task.Season.StartDay),
			formatMonthDay(task.Season.EndMonth, task.Season.EndDay),
			task.FrequencyDays, formatNullDate(task.LastPerformed))
	case model.TaskKindOccasional:
		result, err = s.db.ExecContext(ctx, `
			INSERT INTO occasional_tasks (id, task, category, description, duration_hours,
				frequency_weeks, last_performed)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				task = excluded.task,
				category = excluded.category,
				description = excluded.description,
				duration_hours = excluded.duration_hours,
				frequency_weeks = excluded.frequency_weeks,
				last_performed = excluded.last_performed
		`, id, task.Name, task.Category, task.Description, task.DurationHours,
			task.FrequencyWeeks, formatNullDate(task.LastPerformed))
	}
	if err != nil {
		return fmt.Errorf("failed to save %s task %q: %w", task.Kind, task.Name, err)
	}

	if task.ID == 0 {
		newID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get task id: %w", err)
		}
		task.ID = newID
	}
	return nil
}

func formatMonthDay(m time.Month, d int) string {
	return fmt.Sprintf("%02d/%02d", int(m), d)
}

func formatNullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(model.WeekLayout), Valid: true}
}

func parseNullDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(model.WeekLayout, s.String)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s.String, err)
	}
	return &t, nil
}
