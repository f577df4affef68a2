package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/chore-chart/internal/common"
	"github.com/Veraticus/chore-chart/internal/model"
	"github.com/Veraticus/chore-chart/internal/testutil"
)

var testWeek = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// seedHousehold writes a testutil household into the store.
func seedHousehold(t *testing.T, store *SQLiteStorage, h *testutil.Household) {
	t.Helper()
	ctx := context.Background()

	for _, p := range h.People() {
		p := p
		require.NoError(t, store.UpsertPerson(ctx, &p))
	}
	for _, kind := range model.TaskKinds {
		for _, task := range h.Catalog().Tasks(kind) {
			task := task
			require.NoError(t, store.UpsertTask(ctx, &task))
		}
	}
	for key, weight := range h.Preferences() {
		require.NoError(t, store.SetPreference(ctx, model.Preference{Task: key.Task, PersonID: key.PersonID, Weight: weight}))
	}
	for _, req := range h.Requests() {
		require.NoError(t, store.SaveRequest(ctx, req))
	}
}

func TestNewSQLiteStorage_InMemory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Migrate(context.Background()))
	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	_, err = store.NewCheckpointManager()
	assert.ErrorIs(t, err, ErrInMemoryCheckpoint)
}

func TestSQLiteStorage_People(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	ana := &model.Person{FirstName: "Ana", LastName: "Ortiz", LoadFraction: 1, Parent: true, Active: true}
	require.NoError(t, store.UpsertPerson(ctx, ana))
	assert.NotZero(t, ana.ID, "id is assigned")

	ben := &model.Person{ID: 7, FirstName: "Ben", LoadFraction: 0.5, Active: true}
	require.NoError(t, store.UpsertPerson(ctx, ben))

	got, err := store.GetPerson(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, *ana, *got)

	ben.LoadFraction = 0.75
	require.NoError(t, store.UpsertPerson(ctx, ben))
	got, err = store.GetPerson(ctx, 7)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, got.LoadFraction, 1e-9)

	require.NoError(t, store.SetPersonActive(ctx, ana.ID, false))
	active, err := store.ListPeople(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Ben", active[0].FirstName)

	everyone, err := store.ListPeople(ctx, false)
	require.NoError(t, err)
	assert.Len(t, everyone, 2)

	_, err = store.GetPerson(ctx, 99)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, store.SetPersonActive(ctx, 99, true), common.ErrNotFound)

	err = store.UpsertPerson(ctx, &model.Person{FirstName: "", LoadFraction: 1})
	assert.ErrorIs(t, err, ErrInvalidPerson)
}

func TestSQLiteStorage_Catalog(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	last := time.Date(2026, time.April, 6, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{Name: "House Meal", Category: "Meals", Kind: model.TaskKindDaily, Rotation: model.RotationCook, DurationHours: 2.5},
		{Name: "Bathrm, Main", Category: "Bathrooms", Description: "Sinks, toilet, floor", Kind: model.TaskKindWeekly, DurationHours: 1.5},
		{
			Name: "Shovel Walk", Category: "Other Common Areas", Kind: model.TaskKindSeasonal, DurationHours: 1, FrequencyDays: 7,
			Season: &model.SeasonWindow{StartMonth: time.November, StartDay: 1, EndMonth: time.March, EndDay: 15},
		},
		{Name: "Clean Fridge", Category: "Occasional Tasks", Kind: model.TaskKindOccasional, DurationHours: 1, FrequencyWeeks: 4, LastPerformed: &last},
	}
	for i := range tasks {
		require.NoError(t, store.UpsertTask(ctx, &tasks[i]))
		assert.NotZero(t, tasks[i].ID)
	}

	catalog, err := store.GetCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, catalog.Daily, 1)
	require.Len(t, catalog.Weekly, 1)
	require.Len(t, catalog.Seasonal, 1)
	require.Len(t, catalog.Occasional, 1)

	assert.Equal(t, model.RotationCook, catalog.Daily[0].Rotation)
	assert.Equal(t, "Sinks, toilet, floor", catalog.Weekly[0].Description)
	assert.Equal(t, *tasks[2].Season, *catalog.Seasonal[0].Season)
	assert.Nil(t, catalog.Seasonal[0].LastPerformed)
	require.NotNil(t, catalog.Occasional[0].LastPerformed)
	assert.True(t, last.Equal(*catalog.Occasional[0].LastPerformed))

	bad := model.Task{Name: "Gutters", Kind: model.TaskKindSeasonal, DurationHours: 2, FrequencyDays: 90}
	assert.ErrorIs(t, store.UpsertTask(ctx, &bad), ErrInvalidTask)
}

func TestSQLiteStorage_PreferencesAndRequests(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SetPreference(ctx, model.Preference{Task: "Night Cleanup", Kind: model.TaskKindDaily, PersonID: 1, Weight: 2}))
	require.NoError(t, store.SetPreference(ctx, model.Preference{Task: "Night Cleanup", Kind: model.TaskKindDaily, PersonID: 1, Weight: 5}))
	require.NoError(t, store.SetPreference(ctx, model.Preference{Task: "Night Cleanup", PersonID: 2, Weight: 0}))

	prefs, err := store.GetPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, prefs.Get(1, "Night Cleanup"), "later value replaces earlier")
	assert.Equal(t, 0, prefs.Get(2, "Night Cleanup"))

	assert.ErrorIs(t, store.SetPreference(ctx, model.Preference{Task: "x", PersonID: 1, Weight: -1}), ErrInvalidPreference)

	req := model.AvailabilityRequest{WeekStart: testWeek, PersonID: 1, InTown: 127, Cook: 1, Cleanup: 0b0011110, DishesAM: 64}
	require.NoError(t, store.SaveRequest(ctx, req))

	got, err := store.GetRequests(ctx, testWeek)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, req, got[0])

	other, err := store.GetRequests(ctx, testWeek.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Empty(t, other)

	req.Cook = 128
	err = store.SaveRequest(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	req.Cook = 1
	req.WeekStart = testWeek.AddDate(0, 0, 1)
	err = store.SaveRequest(ctx, req)
	assert.True(t, errors.Is(err, common.ErrInvalidWeek))
}
