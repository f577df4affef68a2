// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/chore-chart/internal/chart"
	"github.com/Veraticus/chore-chart/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	HouseholdStore
	ScheduleStore

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// HouseholdStore holds the roster, task catalog, preferences and requests.
// Its read methods are everything the engine needs to plan a week.
type HouseholdStore interface {
	// People
	ListPeople(ctx context.Context, activeOnly bool) ([]model.Person, error)
	GetPerson(ctx context.Context, id int64) (*model.Person, error)
	UpsertPerson(ctx context.Context, person *model.Person) error
	SetPersonActive(ctx context.Context, id int64, active bool) error

	// Tasks
	GetCatalog(ctx context.Context) (*model.Catalog, error)
	UpsertTask(ctx context.Context, task *model.Task) error

	// Preferences
	GetPreferences(ctx context.Context) (model.Preferences, error)
	ListPreferences(ctx context.Context) ([]model.Preference, error)
	SetPreference(ctx context.Context, pref model.Preference) error

	// Availability requests
	GetRequests(ctx context.Context, weekStart time.Time) ([]model.AvailabilityRequest, error)
	SaveRequest(ctx context.Context, req model.AvailabilityRequest) error

	// History
	GetLeftoverHours(ctx context.Context, weekStart time.Time) (map[int64]float64, error)
	GetLastPerformed(ctx context.Context, before time.Time) (map[model.TaskRef]time.Time, error)
}

// ScheduleStore persists computed weeks. Saving a week replaces it entirely.
type ScheduleStore interface {
	SaveSchedule(ctx context.Context, schedule *model.Schedule) error
	GetSchedule(ctx context.Context, weekStart time.Time) (*model.Schedule, error)
	ListScheduledWeeks(ctx context.Context) ([]time.Time, error)
	WeekHasRows(ctx context.Context, weekStart time.Time) (bool, error)
}

// ChartWriter publishes a laid out chart somewhere outside the database.
type ChartWriter interface {
	Write(ctx context.Context, c *chart.Chart) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
