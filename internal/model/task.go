package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TaskKind is the recurrence class of a task.
type TaskKind string

const (
	// TaskKindDaily tasks are pinned to a weekday and recur every week.
	TaskKindDaily TaskKind = "daily"
	// TaskKindWeekly tasks recur every week without a weekday.
	TaskKindWeekly TaskKind = "weekly"
	// TaskKindSeasonal tasks recur every N days inside a yearly date window.
	TaskKindSeasonal TaskKind = "seasonal"
	// TaskKindOccasional tasks recur every N weeks.
	TaskKindOccasional TaskKind = "occasional"
)

// TaskKinds lists every kind in catalog order.
var TaskKinds = []TaskKind{TaskKindDaily, TaskKindWeekly, TaskKindSeasonal, TaskKindOccasional}

// ParseTaskKind converts a string into a TaskKind.
func ParseTaskKind(s string) (TaskKind, error) {
	switch TaskKind(strings.ToLower(strings.TrimSpace(s))) {
	case TaskKindDaily:
		return TaskKindDaily, nil
	case TaskKindWeekly:
		return TaskKindWeekly, nil
	case TaskKindSeasonal:
		return TaskKindSeasonal, nil
	case TaskKindOccasional:
		return TaskKindOccasional, nil
	default:
		return "", fmt.Errorf("unknown task kind %q", s)
	}
}

// Rotation identifies which day-pinned duty a daily task fills.
type Rotation string

const (
	RotationCook          Rotation = "cook"
	RotationCleanupLead   Rotation = "cleanup_lead"
	RotationCleanupHelper Rotation = "cleanup_helper"
	RotationNightSweep    Rotation = "night_sweep"
	RotationDishesAM      Rotation = "dishes_am"
	RotationDishesPM      Rotation = "dishes_pm"
)

// Rotations lists the rotations in the order the engine fills them.
var Rotations = []Rotation{
	RotationCook,
	RotationCleanupLead,
	RotationCleanupHelper,
	RotationNightSweep,
	RotationDishesAM,
	RotationDishesPM,
}

// StandardRotationNames maps the household's historical daily task names to
// the rotation each one fills. Used when an imported catalog has no rotation column.
var StandardRotationNames = map[string]Rotation{
	"House Meal":          RotationCook,
	"Meal Cleanup Lead":   RotationCleanupLead,
	"Meal Cleanup Helper": RotationCleanupHelper,
	"Night Cleanup":       RotationNightSweep,
	"Unload Dishes AM":    RotationDishesAM,
	"Unload Dishes PM":    RotationDishesPM,
}

// ParseRotation converts a string into a Rotation.
func ParseRotation(s string) (Rotation, error) {
	r := Rotation(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Rotations {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown rotation %q", s)
}

// Activity returns the availability activity a rotation draws its candidates from.
func (r Rotation) Activity() Activity {
	switch r {
	case RotationCook:
		return ActivityCook
	case RotationCleanupLead, RotationCleanupHelper:
		return ActivityCleanup
	case RotationNightSweep:
		return ActivityNightSweep
	case RotationDishesAM:
		return ActivityDishesAM
	case RotationDishesPM:
		return ActivityDishesPM
	default:
		return ActivityInTown
	}
}

// SeasonWindow is a yearly month/day range. End before Start wraps across the new year.
type SeasonWindow struct {
	StartMonth time.Month
	StartDay   int
	EndMonth   time.Month
	EndDay     int
}

// Contains reports whether date falls inside the window, ignoring the year.
func (w SeasonWindow) Contains(date time.Time) bool {
	md := monthDay(date.Month(), date.Day())
	start := monthDay(w.StartMonth, w.StartDay)
	end := monthDay(w.EndMonth, w.EndDay)
	if end < start {
		return md >= start || md <= end
	}
	return md >= start && md <= end
}

// String renders the window as MM/DD-MM/DD.
func (w SeasonWindow) String() string {
	return fmt.Sprintf("%02d/%02d-%02d/%02d", int(w.StartMonth), w.StartDay, int(w.EndMonth), w.EndDay)
}

func monthDay(m time.Month, d int) int {
	return int(m)*100 + d
}

// ParseMonthDay parses "MM/DD" (a trailing "/YYYY" is ignored).
func ParseMonthDay(s string) (time.Month, int, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("invalid month/day %q", s)
	}
	var month, day int
	if _, err := fmt.Sscanf(parts[0]+" "+parts[1], "%d %d", &month, &day); err != nil {
		return 0, 0, fmt.Errorf("invalid month/day %q: %w", s, err)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, fmt.Errorf("month/day %q out of range", s)
	}
	return time.Month(month), day, nil
}

// Task is one chore definition. Kind selects which recurrence fields apply.
type Task struct {
	LastPerformed  *time.Time
	Season         *SeasonWindow // seasonal only
	Name           string
	Category       string
	Description    string
	Kind           TaskKind
	Rotation       Rotation // daily only
	ID             int64
	DurationHours  float64
	FrequencyDays  int // seasonal only
	FrequencyWeeks int // occasional only
}

// Validate checks the fields required by the task's kind.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("task %d has no name", t.ID)
	}
	if t.DurationHours < 0 {
		return fmt.Errorf("task %q has negative duration", t.Name)
	}
	switch t.Kind {
	case TaskKindDaily:
		if _, err := ParseRotation(string(t.Rotation)); err != nil {
			return fmt.Errorf("daily task %q: %w", t.Name, err)
		}
	case TaskKindWeekly:
	case TaskKindSeasonal:
		if t.Season == nil {
			return fmt.Errorf("seasonal task %q has no season window", t.Name)
		}
		if t.FrequencyDays <= 0 {
			return fmt.Errorf("seasonal task %q needs a positive frequency", t.Name)
		}
	case TaskKindOccasional:
		if t.FrequencyWeeks <= 0 {
			return fmt.Errorf("occasional task %q needs a positive frequency", t.Name)
		}
	default:
		return fmt.Errorf("task %q has unknown kind %q", t.Name, t.Kind)
	}
	return nil
}

// TaskRef identifies a task across the four catalogs.
type TaskRef struct {
	Kind TaskKind
	ID   int64
}

// Catalog holds the four task lists.
type Catalog struct {
	Daily      []Task
	Weekly     []Task
	Seasonal   []Task
	Occasional []Task
}

// Tasks returns the list for a kind.
func (c *Catalog) Tasks(kind TaskKind) []Task {
	switch kind {
	case TaskKindDaily:
		return c.Daily
	case TaskKindWeekly:
		return c.Weekly
	case TaskKindSeasonal:
		return c.Seasonal
	case TaskKindOccasional:
		return c.Occasional
	default:
		return nil
	}
}

// Add appends a task to the list matching its kind.
func (c *Catalog) Add(t Task) {
	switch t.Kind {
	case TaskKindDaily:
		c.Daily = append(c.Daily, t)
	case TaskKindWeekly:
		c.Weekly = append(c.Weekly, t)
	case TaskKindSeasonal:
		c.Seasonal = append(c.Seasonal, t)
	case TaskKindOccasional:
		c.Occasional = append(c.Occasional, t)
	}
}

// Find looks up a task by reference.
func (c *Catalog) Find(ref TaskRef) (Task, bool) {
	for _, t := range c.Tasks(ref.Kind) {
		if t.ID == ref.ID {
			return t, true
		}
	}
	return Task{}, false
}

// RotationTask returns the daily task that fills a rotation.
func (c *Catalog) RotationTask(r Rotation) (Task, bool) {
	for _, t := range c.Daily {
		if t.Rotation == r {
			return t, true
		}
	}
	return Task{}, false
}

// Names returns every task name in the catalog, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Daily)+len(c.Weekly)+len(c.Seasonal)+len(c.Occasional))
	for _, kind := range TaskKinds {
		for _, t := range c.Tasks(kind) {
			names = append(names, t.Name)
		}
	}
	sort.Strings(names)
	return names
}

// SortByID orders every list by task ID.
func (c *Catalog) SortByID() {
	for _, list := range [][]Task{c.Daily, c.Weekly, c.Seasonal, c.Occasional} {
		sort.SliceStable(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}
}
