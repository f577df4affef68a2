package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 4

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

func execAll(tx *sql.Tx, queries []string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Household roster, task catalogs, preferences and requests",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS people (
					id INTEGER PRIMARY KEY,
					first_name TEXT NOT NULL,
					last_name TEXT NOT NULL DEFAULT '',
					load_fraction REAL NOT NULL DEFAULT 1,
					parent INTEGER NOT NULL DEFAULT 0,
					active INTEGER NOT NULL DEFAULT 1
				)`,

				`CREATE TABLE IF NOT EXISTS daily_tasks (
					id INTEGER PRIMARY KEY,
					task TEXT NOT NULL UNIQUE,
					category TEXT NOT NULL DEFAULT '',
					description TEXT NOT NULL DEFAULT '',
					duration_hours REAL NOT NULL,
					rotation TEXT NOT NULL UNIQUE
				)`,
				`CREATE TABLE IF NOT EXISTS weekly_tasks (
					id INTEGER PRIMARY KEY,
					task TEXT NOT NULL UNIQUE,
					category TEXT NOT NULL DEFAULT '',
					description TEXT NOT NULL DEFAULT '',
					duration_hours REAL NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS seasonal_tasks (
					id INTEGER PRIMARY KEY,
					task TEXT NOT NULL UNIQUE,
					category TEXT NOT NULL DEFAULT '',
					description TEXT NOT NULL DEFAULT '',
					duration_hours REAL NOT NULL,
					start_date TEXT NOT NULL,
					end_date TEXT NOT NULL,
					frequency_days INTEGER NOT NULL,
					last_performed TEXT
				)`,
				`CREATE TABLE IF NOT EXISTS occasional_tasks (
					id INTEGER PRIMARY KEY,
					task TEXT NOT NULL UNIQUE,
					category TEXT NOT NULL DEFAULT '',
					description TEXT NOT NULL DEFAULT '',
					duration_hours REAL NOT NULL,
					frequency_weeks INTEGER NOT NULL,
					last_performed TEXT
				)`,

				`CREATE TABLE IF NOT EXISTS preferences (
					task TEXT NOT NULL,
					task_type TEXT NOT NULL DEFAULT '',
					person_id INTEGER NOT NULL,
					preference INTEGER NOT NULL DEFAULT 0,
					PRIMARY KEY (task, person_id)
				)`,
				`CREATE INDEX idx_preferences_person ON preferences(person_id)`,

				`CREATE TABLE IF NOT EXISTS requests (
					week_start_date TEXT NOT NULL,
					person_id INTEGER NOT NULL,
					days_in_town INTEGER NOT NULL DEFAULT 0,
					cook_meal INTEGER NOT NULL DEFAULT 0,
					meal_cleanup INTEGER NOT NULL DEFAULT 0,
					night_sweep INTEGER NOT NULL DEFAULT 0,
					dishes_am INTEGER NOT NULL DEFAULT 0,
					dishes_pm INTEGER NOT NULL DEFAULT 0,
					PRIMARY KEY (week_start_date, person_id)
				)`,
			})
		},
	},
	{
		Version:     2,
		Description: "Weekly assignments and hours",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS assignments (
					week_start_date TEXT NOT NULL,
					person_id INTEGER NOT NULL,
					task_type TEXT NOT NULL,
					task_id INTEGER NOT NULL,
					PRIMARY KEY (week_start_date, task_type, task_id)
				)`,
				`CREATE INDEX idx_assignments_task ON assignments(task_type, task_id)`,

				`CREATE TABLE IF NOT EXISTS assignments_timed (
					week_start_date TEXT NOT NULL,
					person_id INTEGER NOT NULL,
					weekday INTEGER NOT NULL CHECK (weekday BETWEEN 0 AND 6),
					task_id INTEGER NOT NULL,
					PRIMARY KEY (week_start_date, task_id, weekday)
				)`,

				`CREATE TABLE IF NOT EXISTS hours (
					week_start_date TEXT NOT NULL,
					person_id INTEGER NOT NULL,
					days_in_town INTEGER NOT NULL,
					target_hours REAL NOT NULL,
					leftover_hours REAL NOT NULL,
					hours_worked REAL NOT NULL,
					PRIMARY KEY (week_start_date, person_id)
				)`,
			})
		},
	},
	{
		Version:     3,
		Description: "Record schedule runs and shortfalls",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS schedule_runs (
					id TEXT PRIMARY KEY,
					week_start_date TEXT NOT NULL UNIQUE,
					seed INTEGER NOT NULL,
					shortfalls INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE TABLE IF NOT EXISTS shortfalls (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					week_start_date TEXT NOT NULL,
					task TEXT NOT NULL,
					task_type TEXT NOT NULL,
					weekday INTEGER NOT NULL DEFAULT -1,
					reason TEXT NOT NULL
				)`,
				`CREATE INDEX idx_shortfalls_week ON shortfalls(week_start_date)`,
			})
		},
	},
	{
		Version:     4,
		Description: "Add checkpoint metadata table",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS checkpoint_metadata (
					id TEXT PRIMARY KEY,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					description TEXT,
					file_size INTEGER,
					row_counts TEXT,
					schema_version INTEGER,
					is_auto INTEGER DEFAULT 0
				)`,
				`CREATE INDEX idx_checkpoint_created ON checkpoint_metadata(created_at)`,
			})
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if currentVersion > ExpectedSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than this binary supports (%d)", currentVersion, ExpectedSchemaVersion)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion reports the applied migration version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
