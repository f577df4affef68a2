package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/chore-chart/internal/model"
)

// LoadInput reads everything a run needs for the week starting at week.
// Deficits come from the hours recorded for the previous week.
func LoadInput(ctx context.Context, src InputSource, week time.Time) (*Input, error) {
	week = model.Monday(week)

	people, err := src.ListPeople(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load people: %w", err)
	}
	catalog, err := src.GetCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load task catalog: %w", err)
	}
	requests, err := src.GetRequests(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load requests: %w", err)
	}
	prefs, err := src.GetPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	deficits, err := src.GetLeftoverHours(ctx, week.AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("failed to load previous week's hours: %w", err)
	}
	lastPerformed, err := src.GetLastPerformed(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load task history: %w", err)
	}

	return &Input{
		WeekStart:     week,
		People:        people,
		Catalog:       catalog,
		Requests:      requests,
		Preferences:   prefs,
		Deficits:      deficits,
		LastPerformed: lastPerformed,
	}, nil
}
