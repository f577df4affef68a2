package engine

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/Veraticus/chore-chart/internal/model"
)

// defaultLookback stands in for a task that has never been performed.
const defaultLookback = 365 * 24 * time.Hour

// periodicAllocator hands out weekly, seasonal and occasional tasks, each to at
// most one person per week.
type periodicAllocator struct {
	config        Config
	week          time.Time
	random        RandomSource
	people        []int64
	daysInTown    map[int64]int
	prefs         model.Preferences
	ledger        *Ledger
	lastPerformed map[model.TaskRef]time.Time
	chores        []model.ChoreAssignment
	shortfalls    []model.Shortfall
}

func (a *periodicAllocator) run(catalog *model.Catalog) {
	a.assignWeekly(catalog.Weekly)
	a.assignDue(model.TaskKindSeasonal, catalog.Seasonal)
	a.assignDue(model.TaskKindOccasional, catalog.Occasional)
}

// eligible returns everyone who is in town, willing and can afford the task,
// ranked by preference desc, days in town asc, person ID asc.
func (a *periodicAllocator) eligible(task model.Task) []*candidate {
	var out []*candidate
	for _, id := range a.people {
		if a.daysInTown[id] < 1 {
			continue
		}
		pref := a.prefs.Get(id, task.Name)
		if pref <= 0 || !a.ledger.CanAfford(id, task.DurationHours) {
			continue
		}
		out = append(out, &candidate{personID: id, preference: pref, dayCount: a.daysInTown[id]})
	}
	rankCandidates(out)
	return out
}

func (a *periodicAllocator) assignWeekly(tasks []model.Task) {
	sorted := sortedByID(tasks)

	for _, task := range sorted {
		if task.Name == a.config.PrimaryWeeklyTask {
			a.assignDrawn(task)
		}
	}
	for _, task := range sorted {
		if task.Name != a.config.PrimaryWeeklyTask {
			a.assignRanked(task)
		}
	}
}

// assignDrawn picks a person at random with probability proportional to preference.
func (a *periodicAllocator) assignDrawn(task model.Task) {
	cands := a.eligible(task)
	if len(cands) == 0 {
		a.shortfall(task)
		return
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].personID < cands[j].personID })

	total := 0
	for _, c := range cands {
		total += c.preference
	}
	draw := a.random.Float64() * float64(total)

	chosen := cands[len(cands)-1]
	cumulative := 0.0
	for _, c := range cands {
		cumulative += float64(c.preference)
		if draw < cumulative {
			chosen = c
			break
		}
	}

	slog.Debug("drew primary weekly task",
		"task", task.Name,
		"person_id", chosen.personID,
		"candidates", len(cands))
	a.ledger.Deduct(chosen.personID, task.DurationHours)
	a.record(task, chosen.personID)
}

func (a *periodicAllocator) assignRanked(task model.Task) {
	cands := a.eligible(task)
	if len(cands) == 0 {
		a.shortfall(task)
		return
	}
	a.ledger.Deduct(cands[0].personID, task.DurationHours)
	a.record(task, cands[0].personID)
}

type dueTask struct {
	task    model.Task
	urgency float64
}

// assignDue handles the seasonal and occasional catalogs: only overdue tasks
// are placed, most overdue first.
func (a *periodicAllocator) assignDue(kind model.TaskKind, tasks []model.Task) {
	var due []dueTask
	for _, task := range tasks {
		if kind == model.TaskKindSeasonal && task.Season != nil && !task.Season.Contains(a.week) {
			slog.Debug("seasonal task outside window", "task", task.Name, "window", task.Season.String())
			continue
		}
		u := a.urgency(task)
		if u <= 0 {
			continue
		}
		due = append(due, dueTask{task: task, urgency: u})
	}

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].urgency != due[j].urgency {
			return due[i].urgency > due[j].urgency
		}
		return due[i].task.ID < due[j].task.ID
	})

	for _, d := range due {
		a.assignRanked(d.task)
	}
}

// urgency is how overdue a task is, in days for seasonal tasks and in weeks
// for occasional ones. Zero or less means not due.
func (a *periodicAllocator) urgency(task model.Task) float64 {
	last := a.week.Add(-defaultLookback)
	if t, ok := a.lastPerformed[model.TaskRef{Kind: task.Kind, ID: task.ID}]; ok {
		last = t
	} else if task.LastPerformed != nil {
		last = *task.LastPerformed
	}
	days := DaysBetween(last, a.week)

	switch task.Kind {
	case model.TaskKindSeasonal:
		return float64(days - task.FrequencyDays)
	case model.TaskKindOccasional:
		return float64(days)/7 - float64(task.FrequencyWeeks)
	default:
		return 0
	}
}

func (a *periodicAllocator) record(task model.Task, personID int64) {
	a.chores = append(a.chores, model.ChoreAssignment{
		WeekStart: a.week,
		Kind:      task.Kind,
		PersonID:  personID,
		TaskID:    task.ID,
	})
}

func (a *periodicAllocator) shortfall(task model.Task) {
	reason := reasonNoWilling
	for _, id := range a.people {
		if a.daysInTown[id] >= 1 && a.prefs.Get(id, task.Name) > 0 {
			reason = reasonInsufficient
			break
		}
	}
	slog.Warn("task unassigned",
		"task", task.Name,
		"kind", task.Kind,
		"reason", reason)
	a.shortfalls = append(a.shortfalls, model.Shortfall{
		Task:    task.Name,
		Kind:    task.Kind,
		Reason:  reason,
		Weekday: -1,
	})
}

// DaysBetween returns the whole number of calendar days from a to b, measured
// between their UTC dates.
func DaysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(bd.Sub(ad).Hours() / 24))
}

func sortedByID(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
