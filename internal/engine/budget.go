package engine

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/chore-chart/internal/availability"
	"github.com/Veraticus/chore-chart/internal/model"
)

// Budget is the outcome of weekly hour planning.
type Budget struct {
	Fractions            map[int64]float64
	Targets              map[int64]float64
	DaysInTown           map[int64]int
	Clamped              []int64
	TotalEffectivePeople float64
	PerPersonRate        float64
}

// PlanBudget computes each person's chore-hour target for the week.
//
// A person's fraction is days_in_town/7 scaled by their load fraction. The
// household target is split in proportion to fractions, then the parent credit
// is subtracted and last week's leftover added. Targets above the per-person
// maximum are clamped and the excess is not handed to anyone else.
func PlanBudget(people []model.Person, daysInTown map[int64]int, deficits map[int64]float64, cfg Config) (*Budget, error) {
	if len(people) == 0 {
		return nil, ErrEmptyRoster
	}

	budget := &Budget{
		Fractions:  make(map[int64]float64, len(people)),
		Targets:    make(map[int64]float64, len(people)),
		DaysInTown: make(map[int64]int, len(people)),
	}

	for _, p := range people {
		days := daysInTown[p.ID]
		fraction := float64(days) / availability.DaysPerWeek * p.LoadFraction
		budget.DaysInTown[p.ID] = days
		budget.Fractions[p.ID] = fraction
		budget.TotalEffectivePeople += fraction
	}

	if budget.TotalEffectivePeople <= 0 {
		return nil, fmt.Errorf("%w: %d people on roster but nobody is in town with a nonzero load", ErrNoEffectivePeople, len(people))
	}

	budget.PerPersonRate = cfg.TargetWeeklyHours / budget.TotalEffectivePeople

	for _, p := range people {
		target := budget.PerPersonRate * budget.Fractions[p.ID]
		if p.Parent {
			target -= cfg.ParentCreditHours
		}
		target += deficits[p.ID]

		if target > cfg.MaxWeeklyPersonHours {
			slog.Debug("clamping weekly target",
				"person_id", p.ID,
				"target_hours", target,
				"max_hours", cfg.MaxWeeklyPersonHours)
			target = cfg.MaxWeeklyPersonHours
			budget.Clamped = append(budget.Clamped, p.ID)
		}
		budget.Targets[p.ID] = target
	}

	return budget, nil
}
