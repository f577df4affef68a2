package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/chore-chart/internal/availability"
	"github.com/Veraticus/chore-chart/internal/common"
	"github.com/Veraticus/chore-chart/internal/model"
)

// rowID returns the id column, or the 1-based row number when there is none.
func rowID(t *table, row int) (int64, error) {
	if !t.has("id") || t.get(row, "id") == "" {
		return int64(row + 1), nil
	}
	id, err := t.int64(row, "id")
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, t.rowError(row, fmt.Errorf("id must be positive, got %d", id))
	}
	return id, nil
}

func parsePeople(t *table) ([]model.Person, error) {
	if err := t.require("first_name"); err != nil {
		return nil, err
	}

	people := make([]model.Person, 0, len(t.rows))
	seen := make(map[int64]bool)
	for row := range t.rows {
		id, err := rowID(t, row)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			return nil, t.rowError(row, fmt.Errorf("duplicate person id %d", id))
		}
		seen[id] = true

		p := model.Person{
			ID:        id,
			FirstName: common.NormalizeName(t.get(row, "first_name")),
			LastName:  common.NormalizeName(t.get(row, "last_name")),
		}
		if p.LoadFraction, err = t.float(row, "load_fraction", 1); err != nil {
			return nil, err
		}
		if p.Parent, err = t.bool(row, "parent", false); err != nil {
			return nil, err
		}
		if p.Active, err = t.bool(row, "active", true); err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, t.rowError(row, err)
		}
		people = append(people, p)
	}
	return people, nil
}

func parseTasks(t *table, kind model.TaskKind) ([]model.Task, error) {
	cols := []string{"task", "duration_hours"}
	switch kind {
	case model.TaskKindSeasonal:
		cols = append(cols, "start_date", "end_date", "frequency_days")
	case model.TaskKindOccasional:
		cols = append(cols, "frequency_weeks")
	}
	if err := t.require(cols...); err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0, len(t.rows))
	seen := make(map[int64]bool)
	for row := range t.rows {
		id, err := rowID(t, row)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			return nil, t.rowError(row, fmt.Errorf("duplicate %s task id %d", kind, id))
		}
		seen[id] = true

		task := model.Task{
			ID:          id,
			Kind:        kind,
			Name:        common.NormalizeName(t.get(row, "task")),
			Category:    strings.TrimSpace(t.get(row, "category")),
			Description: t.get(row, "description"),
		}
		if task.DurationHours, err = t.float(row, "duration_hours", 0); err != nil {
			return nil, err
		}

		switch kind {
		case model.TaskKindDaily:
			if task.Rotation, err = rotationFor(t, row, task.Name); err != nil {
				return nil, err
			}
		case model.TaskKindSeasonal:
			season, err := parseSeason(t, row)
			if err != nil {
				return nil, err
			}
			task.Season = season
			if task.FrequencyDays, err = t.int(row, "frequency_days"); err != nil {
				return nil, err
			}
			if task.LastPerformed, err = t.date(row, "last_performed"); err != nil {
				return nil, err
			}
		case model.TaskKindOccasional:
			if task.FrequencyWeeks, err = t.int(row, "frequency_weeks"); err != nil {
				return nil, err
			}
			if task.LastPerformed, err = t.date(row, "last_performed"); err != nil {
				return nil, err
			}
		}

		if err := task.Validate(); err != nil {
			return nil, t.rowError(row, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// rotationFor reads the rotation column, falling back to the standard names.
func rotationFor(t *table, row int, name string) (model.Rotation, error) {
	if s := t.get(row, "rotation"); s != "" {
		r, err := model.ParseRotation(s)
		if err != nil {
			return "", t.rowError(row, err)
		}
		return r, nil
	}
	key := common.NameKey(name)
	for standard, r := range model.StandardRotationNames {
		if common.NameKey(standard) == key {
			return r, nil
		}
	}
	return "", t.rowError(row, fmt.Errorf("daily task %q has no rotation and is not a standard rotation name", name))
}

func parseSeason(t *table, row int) (*model.SeasonWindow, error) {
	sm, sd, err := model.ParseMonthDay(t.get(row, "start_date"))
	if err != nil {
		return nil, t.rowError(row, err)
	}
	em, ed, err := model.ParseMonthDay(t.get(row, "end_date"))
	if err != nil {
		return nil, t.rowError(row, err)
	}
	return &model.SeasonWindow{StartMonth: sm, StartDay: sd, EndMonth: em, EndDay: ed}, nil
}

// checkUniqueNames rejects task names that repeat across the catalogs, and
// daily tasks that share a rotation.
func checkUniqueNames(c *model.Catalog) error {
	names := make(map[string]model.TaskKind)
	for _, kind := range model.TaskKinds {
		for _, task := range c.Tasks(kind) {
			key := common.NameKey(task.Name)
			if other, ok := names[key]; ok {
				return fmt.Errorf("task %q appears in both the %s and %s catalogs", task.Name, other, kind)
			}
			names[key] = kind
		}
	}
	rotations := make(map[model.Rotation]string)
	for _, task := range c.Daily {
		if other, ok := rotations[task.Rotation]; ok {
			return fmt.Errorf("daily tasks %q and %q both fill rotation %s", other, task.Name, task.Rotation)
		}
		rotations[task.Rotation] = task.Name
	}
	return nil
}

// kindOf finds a task's catalog by exact name.
func kindOf(c *model.Catalog, name string) model.TaskKind {
	for _, kind := range model.TaskKinds {
		for _, task := range c.Tasks(kind) {
			if task.Name == name {
				return kind
			}
		}
	}
	return ""
}

func parsePreferences(t *table, catalog *model.Catalog) ([]model.Preference, error) {
	if err := t.require("task", "person_id", "preference"); err != nil {
		return nil, err
	}

	prefs := make([]model.Preference, 0, len(t.rows))
	for row := range t.rows {
		pref := model.Preference{Task: common.NormalizeName(t.get(row, "task"))}
		var err error
		if pref.PersonID, err = t.int64(row, "person_id"); err != nil {
			return nil, err
		}
		if pref.Weight, err = parseWeight(t.get(row, "preference")); err != nil {
			return nil, t.rowError(row, err)
		}
		if s := t.get(row, "task_type"); s != "" {
			if pref.Kind, err = model.ParseTaskKind(s); err != nil {
				return nil, t.rowError(row, err)
			}
		} else {
			pref.Kind = kindOf(catalog, pref.Task)
		}
		prefs = append(prefs, pref)
	}
	return prefs, nil
}

// parseWeight reads a preference cell. Blank means unwilling.
func parseWeight(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	// Spreadsheet exports write whole numbers as "3.0".
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("preference %q is not a whole number", s)
	}
	if f < 0 {
		return 0, fmt.Errorf("preference %q cannot be negative", s)
	}
	return int(f), nil
}

func parseRequests(t *table) ([]model.AvailabilityRequest, error) {
	cols := []string{"week_start", "person_id"}
	for _, a := range model.Activities {
		cols = append(cols, string(a))
	}
	if err := t.require(cols...); err != nil {
		return nil, err
	}

	requests := make([]model.AvailabilityRequest, 0, len(t.rows))
	for row := range t.rows {
		week, err := time.Parse(model.WeekLayout, t.get(row, "week_start"))
		if err != nil {
			return nil, t.rowError(row, fmt.Errorf("week_start: %w", err))
		}
		if week.Weekday() != time.Monday {
			return nil, t.rowError(row, fmt.Errorf("week_start %s: %w", t.get(row, "week_start"), common.ErrInvalidWeek))
		}

		req := model.AvailabilityRequest{WeekStart: week}
		if req.PersonID, err = t.int64(row, "person_id"); err != nil {
			return nil, err
		}
		for _, a := range model.Activities {
			mask, err := parseMask(t.get(row, string(a)))
			if err != nil {
				return nil, t.rowError(row, fmt.Errorf("%s: %w", a, err))
			}
			req.SetMask(a, mask)
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// parseMask accepts a stored bitmask or a day list such as "Mon,Wed".
func parseMask(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if err := availability.Validate(n); err != nil {
			return 0, err
		}
		return n, nil
	}
	return availability.ParseDays(s)
}
