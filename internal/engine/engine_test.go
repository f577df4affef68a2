package engine

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/chore-chart/internal/availability"
	"github.com/Veraticus/chore-chart/internal/model"
	"github.com/Veraticus/chore-chart/internal/testutil"
)

type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

var testWeek = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

func inputFrom(h *testutil.Household) *Input {
	return &Input{
		WeekStart:     h.Week(),
		People:        h.People(),
		Catalog:       h.Catalog(),
		Requests:      h.Requests(),
		Preferences:   h.Preferences(),
		Deficits:      h.Deficits(),
		LastPerformed: h.History(),
	}
}

// fourResidents are available every day and willing to do everything.
func fourResidents(t *testing.T) *testutil.Household {
	t.Helper()
	h := testutil.NewHousehold(t, testWeek)
	for _, name := range []string{"Ana", "Ben", "Cy", "Dee"} {
		h.WithPerson(name)
	}
	for id := int64(1); id <= 4; id++ {
		h.Available(id, 0, 1, 2, 3, 4, 5, 6).PrefersEverything(id)
	}
	return h
}

func timedFor(s *model.Schedule, taskID int64) map[int]int64 {
	out := make(map[int]int64)
	for _, a := range s.Timed {
		if a.TaskID == taskID {
			out[a.Weekday] = a.PersonID
		}
	}
	return out
}

func TestEngine_Run_FourResidents(t *testing.T) {
	h := fourResidents(t)
	eng := New(DefaultConfig(), fixedRandom(0))

	schedule, err := eng.Run(context.Background(), inputFrom(h))
	require.NoError(t, err)

	assert.Equal(t, testWeek, schedule.WeekStart)
	assert.Empty(t, schedule.Shortfalls)

	cooks := timedFor(schedule, 1)
	assert.Equal(t, map[int]int64{3: 2, 6: 1}, cooks, "two cooks before the cleaner pool runs dry")

	leads := timedFor(schedule, 2)
	helpers := timedFor(schedule, 3)
	require.Len(t, leads, 2)
	require.Len(t, helpers, 2)
	for day, lead := range leads {
		_, isMealDay := cooks[day]
		assert.True(t, isMealDay, "cleanup only on meal days")
		assert.NotEqual(t, lead, helpers[day], "lead and helper differ on %s", availability.DayName(day))
		assert.NotEqual(t, cooks[day], lead, "cook does not lead cleanup")
		assert.NotEqual(t, cooks[day], helpers[day], "cook does not help cleanup")
	}

	sweeps := timedFor(schedule, 4)
	assert.Len(t, sweeps, 5)
	for day := range cooks {
		_, swept := sweeps[day]
		assert.False(t, swept, "no night sweep on a meal day")
	}

	assert.Len(t, timedFor(schedule, 5), 7)
	assert.Len(t, timedFor(schedule, 6), 7)

	require.Len(t, schedule.Chores, 1)
	assert.Equal(t, model.TaskKindWeekly, schedule.Chores[0].Kind)
	assert.Equal(t, int64(3), schedule.Chores[0].PersonID)

	require.Len(t, schedule.Hours, 4)
	for _, rec := range schedule.Hours {
		assert.Equal(t, 7, rec.DaysInTown)
		assert.InDelta(t, 6, rec.TargetHours, 1e-9)
		assert.InDelta(t, rec.TargetHours-rec.LeftoverHours, rec.HoursWorked, 1e-9)
		assert.GreaterOrEqual(t, rec.LeftoverHours, -affordEpsilon)
	}
}

func TestEngine_Run_SlotsHoldOnePerson(t *testing.T) {
	h := fourResidents(t)
	h.WithTask(model.Task{ID: 2, Name: "Vacuum Hall", Kind: model.TaskKindWeekly, DurationHours: 0.5}).
		WithTask(model.Task{ID: 1, Name: "Clean Fridge", Kind: model.TaskKindOccasional, DurationHours: 0.5, FrequencyWeeks: 4})
	for id := int64(1); id <= 4; id++ {
		h.Prefers(id, 2, "Vacuum Hall", "Clean Fridge")
	}

	schedule, err := New(DefaultConfig(), rand.New(rand.NewSource(7))).Run(context.Background(), inputFrom(h))
	require.NoError(t, err)

	type slot struct {
		task int64
		day  int
	}
	seen := make(map[slot]bool)
	for _, a := range schedule.Timed {
		key := slot{a.TaskID, a.Weekday}
		assert.False(t, seen[key], "slot %+v filled twice", key)
		seen[key] = true
	}

	chores := make(map[model.TaskRef]bool)
	for _, c := range schedule.Chores {
		ref := model.TaskRef{Kind: c.Kind, ID: c.TaskID}
		assert.False(t, chores[ref], "task %+v assigned twice", ref)
		chores[ref] = true
	}
}

func TestEngine_Run_SameSeedSameSchedule(t *testing.T) {
	h := fourResidents(t)
	for id := int64(1); id <= 4; id++ {
		h.Prefers(id, int(id), testutil.TaskMainBathroom)
	}

	first, err := New(DefaultConfig(), rand.New(rand.NewSource(42))).Run(context.Background(), inputFrom(h))
	require.NoError(t, err)
	second, err := New(DefaultConfig(), rand.New(rand.NewSource(42))).Run(context.Background(), inputFrom(h))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_Run_CookWithoutCleanersKeepsBudget(t *testing.T) {
	h := testutil.NewHousehold(t, testWeek).
		WithPerson("Ana").
		WithPerson("Ben").
		AvailableFor(1, model.ActivityInTown, 0, 1, 2, 3, 4, 5, 6).
		AvailableFor(1, model.ActivityCook, 0, 1, 2, 3, 4, 5, 6).
		AvailableFor(2, model.ActivityInTown, 0, 1, 2, 3, 4, 5, 6)

	schedule, err := New(DefaultConfig(), fixedRandom(0)).Run(context.Background(), inputFrom(h))
	require.NoError(t, err)

	assert.Empty(t, timedFor(schedule, 1), "no meal without a cleanup crew")
	ana, ok := schedule.HoursFor(1)
	require.True(t, ok)
	assert.InDelta(t, ana.TargetHours, ana.LeftoverHours, 1e-9)
	assert.InDelta(t, 0, ana.HoursWorked, 1e-9)

	// Sweep and dishes go unfilled every day, the primary weekly task once.
	assert.Len(t, schedule.Shortfalls, 7*3+1)
	for _, s := range schedule.Shortfalls {
		assert.Equal(t, reasonNoWilling, s.Reason)
	}
}

func TestEngine_Run_InsufficientHoursShortfall(t *testing.T) {
	h := testutil.NewHousehold(t, testWeek).
		WithPerson("Ana").
		AvailableFor(1, model.ActivityInTown, 0, 1, 2, 3, 4, 5, 6).
		AvailableFor(1, model.ActivityDishesAM, 0, 1, 2, 3, 4, 5, 6).
		Prefers(1, 3, testutil.TaskDishesAM)

	cfg := DefaultConfig()
	cfg.MaxWeeklyPersonHours = 2

	schedule, err := New(cfg, fixedRandom(0)).Run(context.Background(), inputFrom(h))
	require.NoError(t, err)

	assert.Len(t, timedFor(schedule, 5), 4, "2 hours buys four half-hour shifts")

	var dishes []model.Shortfall
	for _, s := range schedule.Shortfalls {
		if s.Task == testutil.TaskDishesAM {
			dishes = append(dishes, s)
		}
	}
	require.Len(t, dishes, 3)
	for i, s := range dishes {
		assert.Equal(t, reasonInsufficient, s.Reason)
		assert.Equal(t, 4+i, s.Weekday)
	}
}

func TestEngine_Run_InactivePeopleAreIgnored(t *testing.T) {
	h := fourResidents(t)
	h.WithMember(model.Person{ID: 9, FirstName: "Gone", LoadFraction: 1, Active: false}).
		Available(9, 0, 1, 2, 3, 4, 5, 6)

	schedule, err := New(DefaultConfig(), fixedRandom(0)).Run(context.Background(), inputFrom(h))
	require.NoError(t, err)

	_, ok := schedule.HoursFor(9)
	assert.False(t, ok)
	for _, a := range schedule.Timed {
		assert.NotEqual(t, int64(9), a.PersonID)
	}
}

func TestEngine_Run_Errors(t *testing.T) {
	ctx := context.Background()
	eng := New(DefaultConfig(), fixedRandom(0))

	t.Run("nil input", func(t *testing.T) {
		_, err := eng.Run(ctx, nil)
		assert.ErrorIs(t, err, ErrNilInput)
	})

	t.Run("empty roster", func(t *testing.T) {
		h := testutil.NewHousehold(t, testWeek)
		_, err := eng.Run(ctx, inputFrom(h))
		assert.ErrorIs(t, err, ErrEmptyRoster)
	})

	t.Run("nobody in town", func(t *testing.T) {
		h := testutil.NewHousehold(t, testWeek).WithPerson("Ana")
		_, err := eng.Run(ctx, inputFrom(h))
		assert.ErrorIs(t, err, ErrNoEffectivePeople)
	})

	t.Run("missing rotation task", func(t *testing.T) {
		h := fourResidents(t)
		input := inputFrom(h)
		input.Catalog.Daily = input.Catalog.Daily[:5]
		_, err := eng.Run(ctx, input)
		assert.ErrorIs(t, err, ErrMissingRotationTask)
	})

	t.Run("malformed mask", func(t *testing.T) {
		h := fourResidents(t)
		input := inputFrom(h)
		input.Requests[0].Cleanup = 200
		_, err := eng.Run(ctx, input)
		assert.ErrorIs(t, err, availability.ErrMalformedMask)
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := eng.Run(canceled, inputFrom(fourResidents(t)))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
