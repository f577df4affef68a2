package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/chore-chart/internal/chart"
	"github.com/Veraticus/chore-chart/internal/model"
	"github.com/Veraticus/chore-chart/internal/storage"
)

func TestRenderChart(t *testing.T) {
	c := &chart.Chart{
		Week:       time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC),
		People:     []chart.HoursRow{{Name: "Ana", PersonID: 1, DaysInTown: 7, Hours: 4.5}},
		TotalHours: 4.5,
		Sections: []chart.Section{
			{Title: chart.SectionMeals, Rows: []chart.Row{{Label: "House Meal Mon", Assignee: "Ana", Hours: 2.5}}},
			{Title: chart.SectionDishes, Rows: []chart.Row{{Label: "Unload Dishes AM Tue", Hours: 0.5}}},
			{Title: "Empty"},
		},
		Shortfalls: []model.Shortfall{
			{Task: "Unload Dishes AM", Weekday: 1, Reason: "no willing person available"},
			{Task: "Gutters", Weekday: -1, Reason: "insufficient hours"},
		},
	}

	out := RenderChart(c)
	assert.Contains(t, out, "2026-10-19")
	assert.Contains(t, out, "Total hours: 4.5")
	assert.Contains(t, out, "House Meal Mon")
	assert.Contains(t, out, Unfilled)
	assert.NotContains(t, out, "Empty")
	assert.Contains(t, out, "Unload Dishes AM Tue: no willing person available")
	assert.Contains(t, out, "Gutters: insufficient hours")
}

func TestRenderCheckpoints(t *testing.T) {
	assert.Contains(t, RenderCheckpoints(nil), "No checkpoints found.")

	out := RenderCheckpoints([]storage.CheckpointInfo{
		{ID: "before-import", CreatedAt: time.Now(), Weeks: 3, People: 12, FileSize: 2048, IsAuto: true},
	})
	assert.Contains(t, out, "before-import")
	assert.Contains(t, out, "auto")
	assert.Contains(t, out, "2.0 KiB")
}

func TestRenderProblems(t *testing.T) {
	assert.Contains(t, RenderProblems(nil), "consistent")
	out := RenderProblems([]string{"preference for unknown task \"Gutterz\""})
	assert.Contains(t, out, "1 problem(s)")
	assert.Contains(t, out, "Gutterz")
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "2.5", FormatHours(2.5))
	assert.Equal(t, "3", FormatHours(3))
	assert.Equal(t, "512 B", formatBytes(512))
}

func TestRenderRequests(t *testing.T) {
	assert.Contains(t, RenderRequests(nil, nil), "Nobody is on the roster.")

	people := []model.Person{{ID: 1, FirstName: "Ana"}, {ID: 2, FirstName: "Ben"}}
	out := RenderRequests(people, []model.AvailabilityRequest{
		{PersonID: 1, InTown: 127, Cook: 5, DishesPM: 64},
	})
	assert.Contains(t, out, "cook")
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "Mon,Wed")
	assert.Contains(t, out, "Sun")
	assert.Contains(t, out, "Ben")
}
