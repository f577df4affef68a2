package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Veraticus/chore-chart/internal/model"
)

// Source is the read side a dump copies from.
type Source interface {
	ListPeople(ctx context.Context, activeOnly bool) ([]model.Person, error)
	GetCatalog(ctx context.Context) (*model.Catalog, error)
	ListPreferences(ctx context.Context) ([]model.Preference, error)
}

// Snapshot reads the roster, catalogs and preferences from src.
func Snapshot(ctx context.Context, src Source) (*Dataset, error) {
	people, err := src.ListPeople(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load people: %w", err)
	}
	catalog, err := src.GetCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load task catalog: %w", err)
	}
	prefs, err := src.ListPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	return &Dataset{People: people, Catalog: catalog, Preferences: prefs}, nil
}

// WriteDir writes ds as CSV files that ReadDir reads back.
func WriteDir(dir string, ds *Dataset) ([]string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	var written []string
	write := func(name string, header []string, rows [][]string) error {
		path := filepath.Join(dir, name)
		if err := writeTable(path, header, rows); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	people := make([][]string, 0, len(ds.People))
	for _, p := range ds.People {
		people = append(people, []string{
			formatInt(p.ID), p.FirstName, p.LastName,
			formatFloat(p.LoadFraction), formatBool(p.Parent), formatBool(p.Active),
		})
	}
	if err := write(PeopleFile, []string{"id", "first_name", "last_name", "load_fraction", "parent", "active"}, people); err != nil {
		return written, err
	}

	for _, kind := range model.TaskKinds {
		header, rows := taskRows(kind, ds.Catalog.Tasks(kind))
		if err := write(TaskFile(kind), header, rows); err != nil {
			return written, err
		}
	}

	prefs := make([][]string, 0, len(ds.Preferences))
	for _, p := range ds.Preferences {
		prefs = append(prefs, []string{p.Task, string(p.Kind), formatInt(p.PersonID), strconv.Itoa(p.Weight)})
	}
	if err := write(PreferencesFile, []string{"task", "task_type", "person_id", "preference"}, prefs); err != nil {
		return written, err
	}
	return written, nil
}

func taskRows(kind model.TaskKind, tasks []model.Task) ([]string, [][]string) {
	header := []string{"id", "task", "category", "description", "duration_hours"}
	switch kind {
	case model.TaskKindDaily:
		header = append(header, "rotation")
	case model.TaskKindSeasonal:
		header = append(header, "start_date", "end_date", "frequency_days", "last_performed")
	case model.TaskKindOccasional:
		header = append(header, "frequency_weeks", "last_performed")
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		row := []string{formatInt(t.ID), t.Name, t.Category, t.Description, formatFloat(t.DurationHours)}
		switch kind {
		case model.TaskKindDaily:
			row = append(row, string(t.Rotation))
		case model.TaskKindSeasonal:
			start, end := "", ""
			if t.Season != nil {
				start = fmt.Sprintf("%02d/%02d", int(t.Season.StartMonth), t.Season.StartDay)
				end = fmt.Sprintf("%02d/%02d", int(t.Season.EndMonth), t.Season.EndDay)
			}
			row = append(row, start, end, strconv.Itoa(t.FrequencyDays), formatDate(t.LastPerformed))
		case model.TaskKindOccasional:
			row = append(row, strconv.Itoa(t.FrequencyWeeks), formatDate(t.LastPerformed))
		}
		rows = append(rows, row)
	}
	return header, rows
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(model.WeekLayout)
}
