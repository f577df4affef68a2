package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/chore-chart/internal/model"
)

// ListPreferences returns every stored preference row, ordered by task then person.
func (s *SQLiteStorage) ListPreferences(ctx context.Context) ([]model.Preference, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT task, task_type, person_id, preference
		FROM preferences
		ORDER BY task, person_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var prefs []model.Preference
	for rows.Next() {
		var p model.Preference
		var kind string
		if err := rows.Scan(&p.Task, &kind, &p.PersonID, &p.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		p.Kind = model.TaskKind(kind)
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}

// GetPreferences returns the preference table keyed by person and task name.
func (s *SQLiteStorage) GetPreferences(ctx context.Context) (model.Preferences, error) {
	rows, err := s.ListPreferences(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewPreferences(rows), nil
}

// SetPreference stores one person's weight for a task, replacing any earlier value.
func (s *SQLiteStorage) SetPreference(ctx context.Context, pref model.Preference) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePreference(pref); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (task, task_type, person_id, preference)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(task, person_id) DO UPDATE SET
			task_type = excluded.task_type,
			preference = excluded.preference
	`, pref.Task, string(pref.Kind), pref.PersonID, pref.Weight)
	if err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}
	return nil
}
