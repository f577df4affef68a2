package model

import (
	"sort"
	"time"
)

// WeekLayout is the date format used for week keys.
const WeekLayout = "2006-01-02"

// TimedAssignment pins a daily task to a person on a weekday.
type TimedAssignment struct {
	WeekStart time.Time `json:"week_start" yaml:"week_start"`
	PersonID  int64     `json:"person_id" yaml:"person_id"`
	TaskID    int64     `json:"task_id" yaml:"task_id"`
	Weekday   int       `json:"weekday" yaml:"weekday"`
}

// ChoreAssignment gives an unpinned weekly, seasonal or occasional task to a person.
type ChoreAssignment struct {
	WeekStart time.Time `json:"week_start" yaml:"week_start"`
	Kind      TaskKind  `json:"task_type" yaml:"task_type"`
	PersonID  int64     `json:"person_id" yaml:"person_id"`
	TaskID    int64     `json:"task_id" yaml:"task_id"`
}

// HoursRecord is one person's hour accounting for a week.
type HoursRecord struct {
	WeekStart     time.Time `json:"week_start" yaml:"week_start"`
	PersonID      int64     `json:"person_id" yaml:"person_id"`
	DaysInTown    int       `json:"days_in_town" yaml:"days_in_town"`
	TargetHours   float64   `json:"target_hours" yaml:"target_hours"`
	LeftoverHours float64   `json:"leftover_hours" yaml:"leftover_hours"`
	HoursWorked   float64   `json:"hours_worked" yaml:"hours_worked"`
}

// Shortfall records a task or rotation slot the engine could not fill.
type Shortfall struct {
	Task    string   `json:"task" yaml:"task"`
	Kind    TaskKind `json:"task_type" yaml:"task_type"`
	Reason  string   `json:"reason" yaml:"reason"`
	Weekday int      `json:"weekday" yaml:"weekday"` // -1 for unpinned tasks
}

// ScheduleRun is the audit record of one engine run.
type ScheduleRun struct {
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	WeekStart  time.Time `json:"week_start" yaml:"week_start"`
	ID         string    `json:"id" yaml:"id"`
	Seed       int64     `json:"seed" yaml:"seed"`
	Shortfalls int       `json:"shortfalls" yaml:"shortfalls"`
}

// Schedule is the complete output for one week.
type Schedule struct {
	WeekStart  time.Time         `json:"week_start" yaml:"week_start"`
	Run        *ScheduleRun      `json:"run,omitempty" yaml:"run,omitempty"`
	Timed      []TimedAssignment `json:"timed" yaml:"timed"`
	Chores     []ChoreAssignment `json:"chores" yaml:"chores"`
	Hours      []HoursRecord     `json:"hours" yaml:"hours"`
	Shortfalls []Shortfall       `json:"shortfalls" yaml:"shortfalls"`
}

// Week returns the schedule's week key.
func (s *Schedule) Week() string {
	return s.WeekStart.Format(WeekLayout)
}

// TotalHoursWorked sums hours worked across all people.
func (s *Schedule) TotalHoursWorked() float64 {
	total := 0.0
	for _, h := range s.Hours {
		total += h.HoursWorked
	}
	return total
}

// HoursFor returns the hours record of a person.
func (s *Schedule) HoursFor(personID int64) (HoursRecord, bool) {
	for _, h := range s.Hours {
		if h.PersonID == personID {
			return h, true
		}
	}
	return HoursRecord{}, false
}

// Sort orders every row set deterministically.
func (s *Schedule) Sort() {
	sort.SliceStable(s.Timed, func(i, j int) bool {
		a, b := s.Timed[i], s.Timed[j]
		if a.TaskID != b.TaskID {
			return a.TaskID < b.TaskID
		}
		return a.Weekday < b.Weekday
	})
	kindOrder := map[TaskKind]int{}
	for i, k := range TaskKinds {
		kindOrder[k] = i
	}
	sort.SliceStable(s.Chores, func(i, j int) bool {
		a, b := s.Chores[i], s.Chores[j]
		if a.Kind != b.Kind {
			return kindOrder[a.Kind] < kindOrder[b.Kind]
		}
		return a.TaskID < b.TaskID
	})
	sort.SliceStable(s.Hours, func(i, j int) bool {
		return s.Hours[i].PersonID < s.Hours[j].PersonID
	})
}

// Monday returns the Monday at or before t, at midnight UTC.
func Monday(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// NextMonday returns the Monday strictly after t.
func NextMonday(t time.Time) time.Time {
	return Monday(t).AddDate(0, 0, 7)
}
