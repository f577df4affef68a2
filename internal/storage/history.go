package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/chore-chart/internal/model"
)

// GetLeftoverHours returns each person's unspent hours for a week. Weeks
// that were never planned yield an empty map.
func (s *SQLiteStorage) GetLeftoverHours(ctx context.Context, weekStart time.Time) (map[int64]float64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT person_id, leftover_hours FROM hours WHERE week_start_date = ?
	`, formatWeek(weekStart))
	if err != nil {
		return nil, fmt.Errorf("failed to query leftover hours: %w", err)
	}
	defer func() { _ = rows.Close() }()

	leftovers := make(map[int64]float64)
	for rows.Next() {
		var id int64
		var hours float64
		if err := rows.Scan(&id, &hours); err != nil {
			return nil, fmt.Errorf("failed to scan leftover hours: %w", err)
		}
		leftovers[id] = hours
	}
	return leftovers, rows.Err()
}

// GetLastPerformed returns, per seasonal or occasional task, the latest week
// before the given one in which it was assigned. Tasks never assigned are
// absent, and callers fall back to the catalog's own last_performed date.
func (s *SQLiteStorage) GetLastPerformed(ctx context.Context, before time.Time) (map[model.TaskRef]time.Time, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT task_type, task_id, MAX(week_start_date)
		FROM assignments
		WHERE task_type IN (?, ?) AND week_start_date < ?
		GROUP BY task_type, task_id
	`, string(model.TaskKindSeasonal), string(model.TaskKindOccasional), formatWeek(before))
	if err != nil {
		return nil, fmt.Errorf("failed to query task history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	history := make(map[model.TaskRef]time.Time)
	for rows.Next() {
		var kind, raw string
		var id int64
		if err := rows.Scan(&kind, &id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan task history: %w", err)
		}
		week, err := parseWeek(raw)
		if err != nil {
			return nil, err
		}
		history[model.TaskRef{Kind: model.TaskKind(kind), ID: id}] = week
	}
	return history, rows.Err()
}
