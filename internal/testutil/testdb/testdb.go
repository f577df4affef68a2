// Package testdb seeds in-memory databases from testutil households.
package testdb

import (
	"context"
	"testing"

	"github.com/Veraticus/chore-chart/internal/model"
	"github.com/Veraticus/chore-chart/internal/storage"
	"github.com/Veraticus/chore-chart/internal/testutil"
)

// TestDB is a migrated in-memory database seeded from a Household.
type TestDB struct {
	Storage   *storage.SQLiteStorage
	Household *testutil.Household
	t         *testing.T
}

// SetupTestDB creates a migrated in-memory database and stores everything
// the household describes. Deficits become the previous week's leftover
// hours and LastPerformed dates become the tasks' catalog dates.
//
// Example:
//
//	h := testutil.NewHousehold(t, week).WithPerson("Ana").PrefersEverything(1)
//	db := testdb.SetupTestDB(t, h)
func SetupTestDB(t *testing.T, h *testutil.Household) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db := &TestDB{Storage: store, Household: h, t: t}
	if h != nil {
		db.seed(ctx)
	}
	return db
}

func (db *TestDB) seed(ctx context.Context) {
	db.t.Helper()
	h := db.Household

	for _, p := range h.People() {
		p := p
		if err := db.Storage.UpsertPerson(ctx, &p); err != nil {
			db.t.Fatalf("failed to seed person %q: %v", p.DisplayName(), err)
		}
	}

	history := h.History()
	for _, kind := range model.TaskKinds {
		for _, task := range h.Catalog().Tasks(kind) {
			task := task
			if when, ok := history[model.TaskRef{Kind: kind, ID: task.ID}]; ok {
				when := when
				task.LastPerformed = &when
			}
			if err := db.Storage.UpsertTask(ctx, &task); err != nil {
				db.t.Fatalf("failed to seed task %q: %v", task.Name, err)
			}
		}
	}

	for key, weight := range h.Preferences() {
		pref := model.Preference{Task: key.Task, PersonID: key.PersonID, Weight: weight}
		if err := db.Storage.SetPreference(ctx, pref); err != nil {
			db.t.Fatalf("failed to seed preference %q: %v", key.Task, err)
		}
	}

	for _, req := range h.Requests() {
		if err := db.Storage.SaveRequest(ctx, req); err != nil {
			db.t.Fatalf("failed to seed request for person %d: %v", req.PersonID, err)
		}
	}

	if deficits := h.Deficits(); len(deficits) > 0 {
		previous := &model.Schedule{WeekStart: h.Week().AddDate(0, 0, -7)}
		for id, hours := range deficits {
			previous.Hours = append(previous.Hours, model.HoursRecord{
				WeekStart:     previous.WeekStart,
				PersonID:      id,
				LeftoverHours: hours,
			})
		}
		if err := db.Storage.SaveSchedule(ctx, previous); err != nil {
			db.t.Fatalf("failed to seed previous week: %v", err)
		}
	}
}

// MustGetSchedule loads a stored week or fails the test.
func (db *TestDB) MustGetSchedule(ctx context.Context) *model.Schedule {
	db.t.Helper()
	schedule, err := db.Storage.GetSchedule(ctx, db.Household.Week())
	if err != nil {
		db.t.Fatalf("failed to load schedule: %v", err)
	}
	return schedule
}
