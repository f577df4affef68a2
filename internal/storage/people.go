package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/chore-chart/internal/common"
	"github.com/Veraticus/chore-chart/internal/model"
)

const personColumns = `id, first_name, last_name, load_fraction, parent, active`

func scanPerson(row interface{ Scan(...any) error }) (model.Person, error) {
	var p model.Person
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.LoadFraction, &p.Parent, &p.Active)
	return p, err
}

// ListPeople returns the roster ordered by ID.
func (s *SQLiteStorage) ListPeople(ctx context.Context, activeOnly bool) ([]model.Person, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + personColumns + ` FROM people`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query people: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var people []model.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

// GetPerson returns one person or common.ErrNotFound.
func (s *SQLiteStorage) GetPerson(ctx context.Context, id int64) (*model.Person, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	p, err := scanPerson(s.db.QueryRowContext(ctx, `SELECT `+personColumns+` FROM people WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("person %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return &p, nil
}

// UpsertPerson inserts a person, or updates them when the ID exists.
// A zero ID is assigned by the database and written back.
func (s *SQLiteStorage) UpsertPerson(ctx context.Context, person *model.Person) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePerson(person); err != nil {
		return err
	}
	return s.upsertPerson(ctx, s.db, person)
}

func (s *SQLiteStorage) upsertPerson(ctx context.Context, q queryable, person *model.Person) error {
	var id any
	if person.ID != 0 {
		id = person.ID
	}

	result, err := q.ExecContext(ctx, `
		INSERT INTO people (id, first_name, last_name, load_fraction, parent, active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			load_fraction = excluded.load_fraction,
			parent = excluded.parent,
			active = excluded.active
	`, id, person.FirstName, person.LastName, person.LoadFraction, person.Parent, person.Active)
	if err != nil {
		return fmt.Errorf("failed to save person: %w", err)
	}

	if person.ID == 0 {
		newID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get person id: %w", err)
		}
		person.ID = newID
	}
	return nil
}

// SetPersonActive moves a person on or off the active roster.
func (s *SQLiteStorage) SetPersonActive(ctx context.Context, id int64, active bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE people SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("person %d: %w", id, common.ErrNotFound)
	}
	return nil
}
