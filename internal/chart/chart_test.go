package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/chore-chart/internal/model"
	"github.com/Veraticus/chore-chart/internal/testutil"
)

var week = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

func testCatalog() *model.Catalog {
	c := testutil.StandardCatalog()
	c.Weekly[0].Description = "Sinks, toilet, tub, floor"
	c.Add(model.Task{ID: 2, Name: "Bathrm, Upstairs", Category: "Bathrooms", Description: "ignored", Kind: model.TaskKindWeekly, DurationHours: 1})
	c.Add(model.Task{ID: 3, Name: "Fridge Purge", Category: "Main Kitchen", Description: "Toss expired food", Kind: model.TaskKindWeekly, DurationHours: 0.5})
	c.Add(model.Task{ID: 4, Name: "Compost Run", Category: "Garden", Kind: model.TaskKindWeekly, DurationHours: 0.5})
	c.Add(model.Task{ID: 1, Name: "Clean Oven", Category: "Occasional Tasks", Kind: model.TaskKindOccasional, DurationHours: 1, FrequencyWeeks: 8})
	return c
}

func testPeople() []model.Person {
	return []model.Person{
		{ID: 1, FirstName: "Ana", LoadFraction: 1, Active: true},
		{ID: 2, FirstName: "Ben", LoadFraction: 1, Active: true},
		{ID: 3, FirstName: "Cy", LoadFraction: 1, Active: true},
	}
}

func testSchedule() *model.Schedule {
	return &model.Schedule{
		WeekStart: week,
		Timed: []model.TimedAssignment{
			{PersonID: 1, TaskID: 1, Weekday: 4},
			{PersonID: 2, TaskID: 1, Weekday: 1},
			{PersonID: 3, TaskID: 2, Weekday: 1},
			{PersonID: 1, TaskID: 3, Weekday: 1},
			{PersonID: 2, TaskID: 4, Weekday: 0},
			{PersonID: 3, TaskID: 5, Weekday: 0},
			{PersonID: 9, TaskID: 6, Weekday: 0},
		},
		Chores: []model.ChoreAssignment{
			{Kind: model.TaskKindWeekly, PersonID: 3, TaskID: 1},
			{Kind: model.TaskKindWeekly, PersonID: 2, TaskID: 2},
			{Kind: model.TaskKindWeekly, PersonID: 1, TaskID: 3},
			{Kind: model.TaskKindWeekly, PersonID: 1, TaskID: 4},
			{Kind: model.TaskKindOccasional, PersonID: 2, TaskID: 1},
		},
		Hours: []model.HoursRecord{
			{PersonID: 1, DaysInTown: 7, HoursWorked: 4.5},
			{PersonID: 2, DaysInTown: 5, HoursWorked: 5},
			{PersonID: 3, DaysInTown: 7, HoursWorked: 3},
			{PersonID: 4, DaysInTown: 0, HoursWorked: 0},
		},
		Shortfalls: []model.Shortfall{{Task: "Unload Dishes PM", Kind: model.TaskKindDaily, Weekday: 3, Reason: "no willing person available"}},
	}
}

func TestBuilder_Build(t *testing.T) {
	c, err := NewBuilder(nil).Build(testSchedule(), testCatalog(), testPeople())
	require.NoError(t, err)

	assert.Equal(t, "2026-10-19", c.Title())
	assert.Equal(t, HeaderText, c.Header)
	assert.InDelta(t, 12.5, c.TotalHours, 1e-9)
	require.Len(t, c.People, 3, "people without hours are left off")
	assert.Equal(t, HoursRow{Name: "Ana", PersonID: 1, DaysInTown: 7, Hours: 4.5}, c.People[0])
	assert.Len(t, c.Shortfalls, 1)

	titles := make([]string, 0, len(c.Sections))
	for _, s := range c.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{
		SectionMeals, SectionNightCleanup, SectionDishes,
		"Main Kitchen", "Bathrooms", "Occasional Tasks", "Garden",
	}, titles)

	meals := c.Sections[0]
	require.Len(t, meals.Rows, 2)
	assert.Equal(t, Row{Label: "House Meal Tue", Assignee: "Ben", Hours: 2.5}, meals.Rows[0])
	assert.Equal(t, "House Meal Fri", meals.Rows[1].Label)

	cleanup := c.Sections[1]
	assert.Equal(t, CleanupDescription, cleanup.Description)
	require.Len(t, cleanup.Rows, 2)
	assert.Equal(t, "Meal Cleanup Lead Tue", cleanup.Rows[0].Label)
	assert.Equal(t, "Meal Cleanup Helper Tue", cleanup.Rows[1].Label)

	dishes := c.Sections[2]
	require.Len(t, dishes.Rows, 14, "every dishes slot is printed")
	assert.Equal(t, Row{Label: "Unload Dishes AM Mon", Assignee: "Cy", Hours: 0.5}, dishes.Rows[0])
	assert.Equal(t, "#9", dishes.Rows[1].Assignee, "unknown people keep their id")
	assert.Empty(t, dishes.Rows[2].Assignee, "unfilled slot")

	bathrooms := c.Sections[4]
	assert.Equal(t, "Sinks, toilet, tub, floor", bathrooms.Description)
	for _, row := range bathrooms.Rows {
		assert.Empty(t, row.Description, "bathrooms share one description")
	}
	assert.Equal(t, "Toss expired food", c.Sections[3].Rows[0].Description)

	assert.Equal(t, 2+2+14+1+2+1+1, c.RowCount())
}

func TestBuilder_CustomOrderAndErrors(t *testing.T) {
	c, err := NewBuilder([]string{"Garden"}).Build(testSchedule(), testCatalog(), testPeople())
	require.NoError(t, err)
	assert.Equal(t, "Garden", c.Sections[3].Title)
	assert.Equal(t, "Bathrooms", c.Sections[4].Title, "unlisted categories follow alphabetically")

	broken := testSchedule()
	broken.Chores = append(broken.Chores, model.ChoreAssignment{Kind: model.TaskKindSeasonal, PersonID: 1, TaskID: 42})
	_, err = NewBuilder(nil).Build(broken, testCatalog(), testPeople())
	assert.Error(t, err)

	_, err = NewBuilder(nil).Build(nil, testCatalog(), nil)
	assert.Error(t, err)
}

func TestBuilder_EmptyWeek(t *testing.T) {
	c, err := NewBuilder(nil).Build(&model.Schedule{WeekStart: week}, testCatalog(), nil)
	require.NoError(t, err)
	require.Len(t, c.Sections, 1, "only the dishes grid prints without assignments")
	assert.Equal(t, SectionDishes, c.Sections[0].Title)
	assert.Zero(t, c.TotalHours)
}
