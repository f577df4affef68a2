package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonWindow_Contains(t *testing.T) {
	tests := []struct {
		name   string
		window SeasonWindow
		date   time.Time
		want   bool
	}{
		{
			name:   "inside plain window",
			window: SeasonWindow{StartMonth: time.April, StartDay: 1, EndMonth: time.October, EndDay: 31},
			date:   time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC),
			want:   true,
		},
		{
			name:   "before plain window",
			window: SeasonWindow{StartMonth: time.April, StartDay: 1, EndMonth: time.October, EndDay: 31},
			date:   time.Date(2026, time.March, 30, 0, 0, 0, 0, time.UTC),
			want:   false,
		},
		{
			name:   "window boundaries are inclusive",
			window: SeasonWindow{StartMonth: time.April, StartDay: 1, EndMonth: time.October, EndDay: 31},
			date:   time.Date(2026, time.October, 31, 0, 0, 0, 0, time.UTC),
			want:   true,
		},
		{
			name:   "wrapping window in january",
			window: SeasonWindow{StartMonth: time.November, StartDay: 1, EndMonth: time.March, EndDay: 1},
			date:   time.Date(2027, time.January, 18, 0, 0, 0, 0, time.UTC),
			want:   true,
		},
		{
			name:   "wrapping window in december",
			window: SeasonWindow{StartMonth: time.November, StartDay: 1, EndMonth: time.March, EndDay: 1},
			date:   time.Date(2026, time.December, 7, 0, 0, 0, 0, time.UTC),
			want:   true,
		},
		{
			name:   "outside wrapping window",
			window: SeasonWindow{StartMonth: time.November, StartDay: 1, EndMonth: time.March, EndDay: 1},
			date:   time.Date(2026, time.July, 6, 0, 0, 0, 0, time.UTC),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.window.Contains(tt.date))
		})
	}
}

func TestParseMonthDay(t *testing.T) {
	m, d, err := ParseMonthDay("11/01")
	require.NoError(t, err)
	assert.Equal(t, time.November, m)
	assert.Equal(t, 1, d)

	m, d, err = ParseMonthDay("3/15/2024")
	require.NoError(t, err)
	assert.Equal(t, time.March, m)
	assert.Equal(t, 15, d)

	_, _, err = ParseMonthDay("13/01")
	assert.Error(t, err)
	_, _, err = ParseMonthDay("spring")
	assert.Error(t, err)
}

func TestMonday(t *testing.T) {
	sunday := time.Date(2026, time.October, 18, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC), Monday(sunday))
	assert.Equal(t, time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC), NextMonday(sunday))

	monday := time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC), Monday(monday))
	assert.Equal(t, time.Date(2026, time.October, 26, 0, 0, 0, 0, time.UTC), NextMonday(monday))
}

func TestTaskValidate(t *testing.T) {
	daily := Task{ID: 1, Name: "House Meal", Kind: TaskKindDaily, Rotation: RotationCook, DurationHours: 2.5}
	require.NoError(t, daily.Validate())

	daily.Rotation = "juggling"
	assert.Error(t, daily.Validate())

	seasonal := Task{ID: 2, Name: "Gutters", Kind: TaskKindSeasonal, DurationHours: 2, FrequencyDays: 90}
	assert.Error(t, seasonal.Validate(), "missing window")
	seasonal.Season = &SeasonWindow{StartMonth: time.April, StartDay: 1, EndMonth: time.November, EndDay: 30}
	assert.NoError(t, seasonal.Validate())

	occasional := Task{ID: 3, Name: "Fridge", Kind: TaskKindOccasional, DurationHours: 1}
	assert.Error(t, occasional.Validate())
}

func TestCatalog_RotationTaskAndNames(t *testing.T) {
	var c Catalog
	c.Add(Task{ID: 2, Name: "Meal Cleanup Lead", Kind: TaskKindDaily, Rotation: RotationCleanupLead})
	c.Add(Task{ID: 1, Name: "House Meal", Kind: TaskKindDaily, Rotation: RotationCook})
	c.Add(Task{ID: 1, Name: "Bathrm, Main", Kind: TaskKindWeekly})
	c.SortByID()

	task, ok := c.RotationTask(RotationCook)
	require.True(t, ok)
	assert.Equal(t, "House Meal", task.Name)
	assert.Equal(t, int64(1), c.Daily[0].ID)

	_, ok = c.RotationTask(RotationDishesAM)
	assert.False(t, ok)

	assert.Equal(t, []string{"Bathrm, Main", "House Meal", "Meal Cleanup Lead"}, c.Names())

	found, ok := c.Find(TaskRef{Kind: TaskKindWeekly, ID: 1})
	require.True(t, ok)
	assert.Equal(t, "Bathrm, Main", found.Name)
}

func TestPreferences_Get(t *testing.T) {
	prefs := NewPreferences([]Preference{
		{PersonID: 1, Task: "Night Cleanup", Weight: 4},
		{PersonID: 2, Task: "Night Cleanup", Weight: 0},
	})
	assert.Equal(t, 4, prefs.Get(1, "Night Cleanup"))
	assert.Equal(t, 0, prefs.Get(2, "Night Cleanup"))
	assert.Equal(t, 0, prefs.Get(3, "Night Cleanup"), "missing preference means unwilling")
	assert.Len(t, prefs.TaskNames(), 1)
}

func TestPerson_Validate(t *testing.T) {
	p := Person{ID: 1, FirstName: "Ana", LoadFraction: 1}
	require.NoError(t, p.Validate())
	assert.Equal(t, "Ana", p.DisplayName())

	p.LoadFraction = 1.5
	assert.Error(t, p.Validate())
	assert.Equal(t, 1.0, ClampLoadFraction(1.5))
	assert.Equal(t, 0.0, ClampLoadFraction(-0.2))
}
