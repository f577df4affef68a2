package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Veraticus/chore-chart/internal/availability"
	"github.com/Veraticus/chore-chart/internal/model"
)

const (
	reasonNoWilling    = "no willing person available"
	reasonInsufficient = "insufficient hours"
)

// rotationScheduler fills the day-pinned duties in priority order.
type rotationScheduler struct {
	config     Config
	week       time.Time
	avail      *weekAvailability
	prefs      model.Preferences
	ledger     *Ledger
	tasks      map[model.Rotation]model.Task
	cooks      map[int64]bool
	cookDays   []int
	timed      []model.TimedAssignment
	shortfalls []model.Shortfall
}

func rotationTasks(catalog *model.Catalog) (map[model.Rotation]model.Task, error) {
	tasks := make(map[model.Rotation]model.Task, len(model.Rotations))
	for _, r := range model.Rotations {
		task, ok := catalog.RotationTask(r)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingRotationTask, r)
		}
		tasks[r] = task
	}
	return tasks, nil
}

func newRotationScheduler(cfg Config, week time.Time, avail *weekAvailability, prefs model.Preferences,
	ledger *Ledger, tasks map[model.Rotation]model.Task) *rotationScheduler {
	return &rotationScheduler{
		config: cfg,
		week:   week,
		avail:  avail,
		prefs:  prefs,
		ledger: ledger,
		tasks:  tasks,
		cooks:  make(map[int64]bool),
	}
}

func (s *rotationScheduler) run() {
	s.assignCooks()

	cleanup := s.cleanupPool()
	s.assignCrew(model.RotationCleanupLead, cleanup, s.cookDays)
	s.assignCrew(model.RotationCleanupHelper, cleanup, s.cookDays)

	s.assignCrew(model.RotationNightSweep, s.avail.pool(model.ActivityNightSweep), s.sweepDays())

	s.assignDishes(model.RotationDishesAM)
	s.assignDishes(model.RotationDishesPM)
}

// assignCooks gives each cook-available person at most one meal day, spreading
// meals so the longest stretch without a house meal stays short.
func (s *rotationScheduler) assignCooks() {
	task := s.tasks[model.RotationCook]

	cands := s.avail.pool(model.ActivityCook)
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dayCount != cands[j].dayCount {
			return cands[i].dayCount < cands[j].dayCount
		}
		return cands[i].personID < cands[j].personID
	})

	claimed := make(map[int]bool)
	bestGap := availability.DaysPerWeek

	for _, c := range cands {
		if !s.ledger.CanAfford(c.personID, task.DurationHours) {
			slog.Debug("cook lacks hours for a meal",
				"person_id", c.personID,
				"remaining", s.ledger.Remaining(c.personID))
			continue
		}

		bestDay := -1
		for _, day := range c.days {
			if claimed[day] {
				continue
			}
			if crew := s.cleanersOn(day, c.personID); crew < s.config.MinCleanupCrew {
				slog.Debug("skipping cook day without enough cleaners",
					"person_id", c.personID,
					"weekday", availability.DayName(day),
					"cleaners", crew)
				continue
			}
			gap := MaxGap(append(append([]int(nil), s.cookDays...), day))
			if gap <= bestGap {
				bestGap = gap
				bestDay = day
			}
		}

		if bestDay < 0 {
			continue
		}
		s.ledger.Deduct(c.personID, task.DurationHours)
		claimed[bestDay] = true
		s.cooks[c.personID] = true
		s.cookDays = append(s.cookDays, bestDay)
		s.record(task, c.personID, bestDay)
	}

	sort.Ints(s.cookDays)
}

// cleanersOn counts cleanup-available people on a day, not counting committed
// cooks or the cook being considered.
func (s *rotationScheduler) cleanersOn(day int, cook int64) int {
	count := 0
	for _, id := range s.avail.people {
		if id == cook || s.cooks[id] {
			continue
		}
		if s.avail.availableOn(model.ActivityCleanup, id, day) {
			count++
		}
	}
	return count
}

// cleanupPool is the shared lead/helper pool. Cooks never clean up after themselves.
func (s *rotationScheduler) cleanupPool() []*candidate {
	all := s.avail.pool(model.ActivityCleanup)
	out := all[:0]
	for _, c := range all {
		if !s.cooks[c.personID] {
			out = append(out, c)
		}
	}
	return out
}

func (s *rotationScheduler) sweepDays() []int {
	meal := make(map[int]bool, len(s.cookDays))
	for _, d := range s.cookDays {
		meal[d] = true
	}
	var days []int
	for d := 0; d < availability.DaysPerWeek; d++ {
		if !meal[d] {
			days = append(days, d)
		}
	}
	return days
}

// assignCrew fills each day with the first ranked candidate who can take it.
// A filled day is removed from the winner's remaining days, so one pool shared
// across roles never puts the same person in two roles on the same day.
func (s *rotationScheduler) assignCrew(r model.Rotation, pool []*candidate, days []int) {
	task := s.tasks[r]
	ranked := withPreference(pool, s.prefs, task.Name)

	for _, day := range days {
		var winner *candidate
		for _, c := range ranked {
			if c.availableOn(day) && s.ledger.Deduct(c.personID, task.DurationHours) {
				winner = c
				break
			}
		}
		if winner == nil {
			s.shortfall(task, day, ranked)
			continue
		}
		winner.release(day)
		s.record(task, winner.personID, day)
	}
}

// assignDishes fills every weekday. The same person may take several days.
func (s *rotationScheduler) assignDishes(r model.Rotation) {
	task := s.tasks[r]
	ranked := withPreference(s.avail.pool(r.Activity()), s.prefs, task.Name)

	for day := 0; day < availability.DaysPerWeek; day++ {
		filled := false
		for _, c := range ranked {
			if c.availableOn(day) && s.ledger.Deduct(c.personID, task.DurationHours) {
				s.record(task, c.personID, day)
				filled = true
				break
			}
		}
		if !filled {
			s.shortfall(task, day, ranked)
		}
	}
}

func (s *rotationScheduler) record(task model.Task, personID int64, day int) {
	s.timed = append(s.timed, model.TimedAssignment{
		WeekStart: s.week,
		PersonID:  personID,
		TaskID:    task.ID,
		Weekday:   day,
	})
}

func (s *rotationScheduler) shortfall(task model.Task, day int, ranked []*candidate) {
	reason := reasonNoWilling
	for _, c := range ranked {
		if c.availableOn(day) {
			reason = reasonInsufficient
			break
		}
	}
	slog.Warn("rotation slot unfilled",
		"task", task.Name,
		"weekday", availability.DayName(day),
		"reason", reason)
	s.shortfalls = append(s.shortfalls, model.Shortfall{
		Task:    task.Name,
		Kind:    model.TaskKindDaily,
		Reason:  reason,
		Weekday: day,
	})
}
