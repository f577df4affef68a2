// Package importer loads a household from CSV files and writes it back out.
//
// A directory holds one file per table:
//
//	people.csv            id, first_name, last_name, load_fraction, parent, active
//	daily_tasks.csv       id, task, category, description, duration_hours, rotation
//	weekly_tasks.csv      id, task, category, description, duration_hours
//	seasonal_tasks.csv    id, task, category, description, duration_hours,
//	                      start_date, end_date, frequency_days, last_performed
//	occasional_tasks.csv  id, task, category, description, duration_hours,
//	                      frequency_weeks, last_performed
//	preferences.csv       task, task_type, person_id, preference
//	requests.csv          week_start, person_id, in_town, cook, cleanup,
//	                      night_sweep, dishes_am, dishes_pm
//
// preferences_wide.csv (a task column plus one column per first name) is
// accepted in place of preferences.csv. requests.csv is optional. A missing
// id column numbers rows from 1, and a daily task without a rotation is
// matched against the standard rotation names.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/chore-chart/internal/model"
)

// Input file names.
const (
	PeopleFile          = "people.csv"
	PreferencesFile     = "preferences.csv"
	WidePreferencesFile = "preferences_wide.csv"
	RequestsFile        = "requests.csv"
)

// TaskFile returns the catalog file name for a kind.
func TaskFile(kind model.TaskKind) string {
	return string(kind) + "_tasks.csv"
}

// Store is the write side an import fills.
type Store interface {
	UpsertPerson(ctx context.Context, person *model.Person) error
	UpsertTask(ctx context.Context, task *model.Task) error
	SetPreference(ctx context.Context, pref model.Preference) error
	SaveRequest(ctx context.Context, req model.AvailabilityRequest) error
}

// Dataset is a whole household read from files or from the database.
type Dataset struct {
	Catalog     *model.Catalog
	People      []model.Person
	Preferences []model.Preference
	Requests    []model.AvailabilityRequest
	Warnings    []string
}

// Tasks returns the number of tasks across the four catalogs.
func (d *Dataset) Tasks() int {
	n := 0
	for _, kind := range model.TaskKinds {
		n += len(d.Catalog.Tasks(kind))
	}
	return n
}

// Rows returns the number of records in the dataset.
func (d *Dataset) Rows() int {
	return len(d.People) + d.Tasks() + len(d.Preferences) + len(d.Requests)
}

// ReadDir parses and validates every file in dir. Nothing is written.
func ReadDir(dir string) (*Dataset, error) {
	ds := &Dataset{Catalog: &model.Catalog{}}

	people, err := readTable(filepath.Join(dir, PeopleFile))
	if err != nil {
		return nil, err
	}
	if ds.People, err = parsePeople(people); err != nil {
		return nil, err
	}

	for _, kind := range model.TaskKinds {
		t, err := readTable(filepath.Join(dir, TaskFile(kind)))
		if errors.Is(err, os.ErrNotExist) && kind != model.TaskKindDaily {
			ds.Warnings = append(ds.Warnings, fmt.Sprintf("%s not found, no %s tasks imported", TaskFile(kind), kind))
			continue
		}
		if err != nil {
			return nil, err
		}
		tasks, err := parseTasks(t, kind)
		if err != nil {
			return nil, err
		}
		for _, task := range tasks {
			ds.Catalog.Add(task)
		}
	}
	if err := checkUniqueNames(ds.Catalog); err != nil {
		return nil, err
	}

	prefs, err := readTable(filepath.Join(dir, PreferencesFile))
	switch {
	case err == nil:
		if ds.Preferences, err = parsePreferences(prefs, ds.Catalog); err != nil {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist):
		wide, werr := readTable(filepath.Join(dir, WidePreferencesFile))
		if werr != nil {
			return nil, fmt.Errorf("need %s or %s: %w", PreferencesFile, WidePreferencesFile, werr)
		}
		var warnings []string
		if ds.Preferences, warnings, err = WideToLong(wide, ds.People, ds.Catalog); err != nil {
			return nil, err
		}
		ds.Warnings = append(ds.Warnings, warnings...)
	default:
		return nil, err
	}

	requests, err := readTable(filepath.Join(dir, RequestsFile))
	switch {
	case err == nil:
		if ds.Requests, err = parseRequests(requests); err != nil {
			return nil, err
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	return ds, nil
}

// Importer writes datasets to a store.
type Importer struct {
	store    Store
	progress io.Writer
}

// New creates an importer. A nil progress writer hides the progress bar.
func New(store Store, progress io.Writer) *Importer {
	if progress == nil {
		progress = io.Discard
	}
	return &Importer{store: store, progress: progress}
}

// Load writes every record of ds. Existing rows with the same keys are replaced.
func (im *Importer) Load(ctx context.Context, ds *Dataset) error {
	bar := progressbar.NewOptions(ds.Rows(),
		progressbar.OptionSetWriter(im.progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing household...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(im.progress)
		}),
	)
	step := func() {
		if err := bar.Add(1); err != nil {
			slog.Debug("Failed to update progress bar", "error", err)
		}
	}

	for i := range ds.People {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := im.store.UpsertPerson(ctx, &ds.People[i]); err != nil {
			return fmt.Errorf("failed to import %s: %w", ds.People[i].DisplayName(), err)
		}
		step()
	}

	for _, kind := range model.TaskKinds {
		tasks := ds.Catalog.Tasks(kind)
		for i := range tasks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := im.store.UpsertTask(ctx, &tasks[i]); err != nil {
				return fmt.Errorf("failed to import %s task %q: %w", kind, tasks[i].Name, err)
			}
			step()
		}
	}

	for _, pref := range ds.Preferences {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := im.store.SetPreference(ctx, pref); err != nil {
			return fmt.Errorf("failed to import preference %q for person %d: %w", pref.Task, pref.PersonID, err)
		}
		step()
	}

	for _, req := range ds.Requests {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := im.store.SaveRequest(ctx, req); err != nil {
			return fmt.Errorf("failed to import request for person %d: %w", req.PersonID, err)
		}
		step()
	}

	if err := bar.Finish(); err != nil {
		slog.Debug("Failed to finish progress bar", "error", err)
	}

	slog.Info("Imported household",
		"people", len(ds.People),
		"preferences", len(ds.Preferences),
		"requests", len(ds.Requests),
		"warnings", len(ds.Warnings))
	return nil
}

// ImportDir reads dir and loads it.
func (im *Importer) ImportDir(ctx context.Context, dir string) (*Dataset, error) {
	ds, err := ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, w := range ds.Warnings {
		slog.Warn("Import warning", "warning", w)
	}
	if err := im.Load(ctx, ds); err != nil {
		return ds, err
	}
	return ds, nil
}
