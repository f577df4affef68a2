package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/chore-chart/internal/model"
	"github.com/Veraticus/chore-chart/internal/testutil"
)

var wholeWeek = []int{0, 1, 2, 3, 4, 5, 6}

func newRotation(t *testing.T, h *testutil.Household, hours map[int64]float64) *rotationScheduler {
	t.Helper()
	avail, err := decodeAvailability(h.People(), h.Requests())
	require.NoError(t, err)
	tasks, err := rotationTasks(h.Catalog())
	require.NoError(t, err)
	return newRotationScheduler(DefaultConfig(), h.Week(), avail, h.Preferences(), NewLedger(hours), tasks)
}

func slotsOf(s *rotationScheduler, r model.Rotation) map[int]int64 {
	out := make(map[int]int64)
	id := s.tasks[r].ID
	for _, a := range s.timed {
		if a.TaskID == id {
			out[a.Weekday] = a.PersonID
		}
	}
	return out
}

func TestRotation_CookDaysAndCrew(t *testing.T) {
	h := testutil.NewHousehold(t, testWeek)
	for _, name := range []string{"Ana", "Ben", "Cy", "Dee"} {
		h.WithPerson(name)
	}
	// Ana would happily lead cleanup, but cooks never clean up after themselves.
	h.AvailableFor(1, model.ActivityCook, 0).
		AvailableFor(1, model.ActivityCleanup, wholeWeek...).
		Prefers(1, 5, testutil.TaskCleanupLead, testutil.TaskCleanupHelper)
	h.AvailableFor(2, model.ActivityCook, 3, 4)
	h.AvailableFor(3, model.ActivityCleanup, wholeWeek...).
		AvailableFor(3, model.ActivityNightSweep, 1, 2, 3, 5, 6).
		Prefers(3, 3, testutil.TaskCleanupLead).
		Prefers(3, 1, testutil.TaskCleanupHelper).
		Prefers(3, 2, testutil.TaskNightCleanup)
	h.AvailableFor(4, model.ActivityCleanup, wholeWeek...).
		AvailableFor(4, model.ActivityNightSweep, 1, 2).
		Prefers(4, 1, testutil.TaskCleanupLead).
		Prefers(4, 3, testutil.TaskCleanupHelper).
		Prefers(4, 2, testutil.TaskNightCleanup)

	s := newRotation(t, h, map[int64]float64{1: 10, 2: 10, 3: 10, 4: 10})
	s.run()

	// Thursday and Friday both leave a 4-day gap after Monday; the later day wins.
	assert.Equal(t, map[int]int64{0: 1, 4: 2}, slotsOf(s, model.RotationCook))
	assert.Equal(t, []int{0, 4}, s.cookDays)

	lead := slotsOf(s, model.RotationCleanupLead)
	helper := slotsOf(s, model.RotationCleanupHelper)
	assert.Equal(t, map[int]int64{0: 3, 4: 3}, lead)
	assert.Equal(t, map[int]int64{0: 4, 4: 4}, helper)
	for day, id := range lead {
		assert.NotEqual(t, id, helper[day], "lead and helper on day %d", day)
	}

	// Equal preference: Dee has fewer sweep days, so she is ranked first.
	assert.Equal(t, map[int]int64{1: 4, 2: 4, 3: 3, 5: 3, 6: 3}, slotsOf(s, model.RotationNightSweep))

	snap := s.ledger.Snapshot()
	assert.InDelta(t, 7.5, snap[1], 1e-9)
	assert.InDelta(t, 7.5, snap[2], 1e-9)
	assert.InDelta(t, 6.5, snap[3], 1e-9)
	assert.InDelta(t, 7.0, snap[4], 1e-9)

	// Nobody offered to unload dishes.
	require.Len(t, s.shortfalls, 14)
	for _, sf := range s.shortfalls {
		assert.Contains(t, []string{testutil.TaskDishesAM, testutil.TaskDishesPM}, sf.Task)
		assert.Equal(t, reasonNoWilling, sf.Reason)
	}
}

func TestRotation_DishesRepeatUntilHoursRunOut(t *testing.T) {
	h := testutil.NewHousehold(t, testWeek)
	h.WithPerson("Ana").WithPerson("Ben")
	h.AvailableFor(1, model.ActivityDishesAM, wholeWeek...).Prefers(1, 2, testutil.TaskDishesAM)
	h.AvailableFor(2, model.ActivityDishesAM, wholeWeek...).Prefers(2, 1, testutil.TaskDishesAM)

	s := newRotation(t, h, map[int64]float64{1: 1, 2: 10})
	s.assignDishes(model.RotationDishesAM)

	assert.Equal(t, map[int]int64{0: 1, 1: 1, 2: 2, 3: 2, 4: 2, 5: 2, 6: 2}, slotsOf(s, model.RotationDishesAM))
	assert.Empty(t, s.shortfalls)
	assert.InDelta(t, 0, s.ledger.Remaining(1), 1e-9)
	assert.InDelta(t, 7.5, s.ledger.Remaining(2), 1e-9)
}

func TestRotation_ShortfallReasons(t *testing.T) {
	h := testutil.NewHousehold(t, testWeek)
	h.WithPerson("Ana").WithPerson("Ben")
	h.AvailableFor(1, model.ActivityDishesPM, 0, 1).Prefers(1, 1, testutil.TaskDishesPM)
	// Ben is around on Wednesday but unwilling.
	h.AvailableFor(2, model.ActivityDishesPM, 2)

	s := newRotation(t, h, map[int64]float64{1: 0.25, 2: 10})
	s.assignDishes(model.RotationDishesPM)

	assert.Empty(t, s.timed)
	require.Len(t, s.shortfalls, 7)
	for _, sf := range s.shortfalls {
		assert.Equal(t, testutil.TaskDishesPM, sf.Task)
		assert.Equal(t, model.TaskKindDaily, sf.Kind)
		if sf.Weekday <= 1 {
			assert.Equal(t, reasonInsufficient, sf.Reason, "weekday %d", sf.Weekday)
		} else {
			assert.Equal(t, reasonNoWilling, sf.Reason, "weekday %d", sf.Weekday)
		}
	}
}
