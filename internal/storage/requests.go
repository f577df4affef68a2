package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/chore-chart/internal/model"
)

// GetRequests returns the availability requests filed for a week.
func (s *SQLiteStorage) GetRequests(ctx context.Context, weekStart time.Time) ([]model.AvailabilityRequest, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateWeek(weekStart); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT person_id, days_in_town, cook_meal, meal_cleanup, night_sweep, dishes_am, dishes_pm
		FROM requests
		WHERE week_start_date = ?
		ORDER BY person_id
	`, formatWeek(weekStart))
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var requests []model.AvailabilityRequest
	for rows.Next() {
		r := model.AvailabilityRequest{WeekStart: weekStart}
		if err := rows.Scan(&r.PersonID, &r.InTown, &r.Cook, &r.Cleanup, &r.NightSweep, &r.DishesAM, &r.DishesPM); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// SaveRequest stores a person's masks for a week, replacing any earlier request.
func (s *SQLiteStorage) SaveRequest(ctx context.Context, req model.AvailabilityRequest) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRequest(req); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO requests (week_start_date, person_id, days_in_town, cook_meal,
			meal_cleanup, night_sweep, dishes_am, dishes_pm)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(week_start_date, person_id) DO UPDATE SET
			days_in_town = excluded.days_in_town,
			cook_meal = excluded.cook_meal,
			meal_cleanup = excluded.meal_cleanup,
			night_sweep = excluded.night_sweep,
			dishes_am = excluded.dishes_am,
			dishes_pm = excluded.dishes_pm
	`, formatWeek(req.WeekStart), req.PersonID, req.InTown, req.Cook,
		req.Cleanup, req.NightSweep, req.DishesAM, req.DishesPM)
	if err != nil {
		return fmt.Errorf("failed to save request: %w", err)
	}
	return nil
}
