package engine

import (
	"context"
	"time"

	"github.com/Veraticus/chore-chart/internal/model"
)

// RandomSource supplies the draw for the weighted primary-task pick.
// *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// InputSource is the read side of the persistence layer the engine loads a week from.
type InputSource interface {
	ListPeople(ctx context.Context, activeOnly bool) ([]model.Person, error)
	GetCatalog(ctx context.Context) (*model.Catalog, error)
	GetRequests(ctx context.Context, weekStart time.Time) ([]model.AvailabilityRequest, error)
	GetPreferences(ctx context.Context) (model.Preferences, error)
	GetLeftoverHours(ctx context.Context, weekStart time.Time) (map[int64]float64, error)
	GetLastPerformed(ctx context.Context, before time.Time) (map[model.TaskRef]time.Time, error)
}
