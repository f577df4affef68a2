// Package engine computes a household's weekly chore assignments.
//
// A run is a fixed pipeline over one week's snapshot: decode availability,
// plan hour budgets, fill the day-pinned rotations, then hand out weekly,
// seasonal and occasional tasks. Every stage spends from the same Ledger.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/chore-chart/internal/model"
)

// Input is the snapshot of persisted state one run plans against.
type Input struct {
	WeekStart     time.Time
	Catalog       *model.Catalog
	Preferences   model.Preferences
	Deficits      map[int64]float64
	LastPerformed map[model.TaskRef]time.Time
	People        []model.Person
	Requests      []model.AvailabilityRequest
}

// Engine runs the allocation pipeline.
type Engine struct {
	random RandomSource
	config Config
}

// New creates an engine. The random source is only used for the primary weekly task.
func New(config Config, random RandomSource) *Engine {
	return &Engine{
		config: config,
		random: random,
	}
}

// Run computes the schedule for input.WeekStart.
func (e *Engine) Run(ctx context.Context, input *Input) (*model.Schedule, error) {
	if input == nil || input.Catalog == nil {
		return nil, ErrNilInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.config.Validate(); err != nil {
		return nil, err
	}

	week := model.Monday(input.WeekStart)
	slog.Info("Planning chore week", "week", week.Format(model.WeekLayout))

	people := activePeople(input.People)
	if len(people) == 0 {
		return nil, ErrEmptyRoster
	}

	tasks, err := rotationTasks(input.Catalog)
	if err != nil {
		return nil, err
	}

	avail, err := decodeAvailability(people, input.Requests)
	if err != nil {
		return nil, fmt.Errorf("failed to decode availability: %w", err)
	}

	budget, err := PlanBudget(people, avail.DaysInTown(), input.Deficits, e.config)
	if err != nil {
		return nil, fmt.Errorf("failed to plan budgets: %w", err)
	}
	slog.Debug("Planned budgets",
		"effective_people", budget.TotalEffectivePeople,
		"rate", budget.PerPersonRate,
		"clamped", len(budget.Clamped))

	prefs := input.Preferences
	if prefs == nil {
		prefs = model.Preferences{}
	}
	ledger := NewLedger(budget.Targets)

	rotations := newRotationScheduler(e.config, week, avail, prefs, ledger, tasks)
	rotations.run()

	periodic := &periodicAllocator{
		config:        e.config,
		week:          week,
		random:        e.random,
		people:        avail.people,
		daysInTown:    budget.DaysInTown,
		prefs:         prefs,
		ledger:        ledger,
		lastPerformed: input.LastPerformed,
	}
	periodic.run(input.Catalog)

	schedule := &model.Schedule{
		WeekStart:  week,
		Timed:      rotations.timed,
		Chores:     periodic.chores,
		Shortfalls: append(rotations.shortfalls, periodic.shortfalls...),
	}
	for _, id := range avail.people {
		target := budget.Targets[id]
		leftover := ledger.Remaining(id)
		schedule.Hours = append(schedule.Hours, model.HoursRecord{
			WeekStart:     week,
			PersonID:      id,
			DaysInTown:    budget.DaysInTown[id],
			TargetHours:   target,
			LeftoverHours: leftover,
			HoursWorked:   target - leftover,
		})
	}
	schedule.Sort()

	slog.Info("Planned chore week",
		"week", schedule.Week(),
		"timed", len(schedule.Timed),
		"chores", len(schedule.Chores),
		"shortfalls", len(schedule.Shortfalls),
		"hours_worked", schedule.TotalHoursWorked())

	return schedule, nil
}

func activePeople(people []model.Person) []model.Person {
	out := make([]model.Person, 0, len(people))
	for _, p := range people {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}
