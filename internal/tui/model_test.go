package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/chore-chart/internal/chart"
	"github.com/Veraticus/chore-chart/internal/model"
)

var (
	week1 = time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC)
	week2 = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
)

func testChart(week time.Time) *chart.Chart {
	return &chart.Chart{
		Week:       week,
		TotalHours: 3,
		People:     []chart.HoursRow{{Name: "Ana", PersonID: 1, DaysInTown: 7, Hours: 3}},
		Sections: []chart.Section{
			{Title: chart.SectionMeals, Rows: []chart.Row{{Label: "House Meal Mon", Hours: 2.5, Assignee: "Ana"}}},
			{Title: chart.SectionNightCleanup},
			{Title: chart.SectionDishes, Rows: []chart.Row{{Label: "Unload Dishes AM Mon", Hours: 0.5}}},
		},
		Shortfalls: []model.Shortfall{{Task: "Unload Dishes AM", Weekday: 0, Reason: "no willing person available"}},
	}
}

func testLoader(calls *[]time.Time) ChartLoader {
	return func(_ context.Context, week time.Time) (*chart.Chart, error) {
		*calls = append(*calls, week)
		if week.Equal(week1) {
			return nil, errors.New("boom")
		}
		return testChart(week), nil
	}
}

// step runs a command to completion and feeds its message back.
func step(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel_LoadsStartingWeek(t *testing.T) {
	var calls []time.Time
	m := NewModel(context.Background(), testLoader(&calls), []time.Time{week1, week2}, 1, WithSize(100, 40))

	assert.Contains(t, m.View(), "Loading...")

	next := step(t, m, m.Init())
	view := next.View()
	assert.Equal(t, []time.Time{week2}, calls)
	assert.Contains(t, view, "week of 2026-10-19")
	assert.Contains(t, view, "Hours")
	assert.Contains(t, view, "Meals")
	assert.NotContains(t, view, chart.SectionNightCleanup, "empty sections get no tab")
	assert.Contains(t, view, "Shortfalls")
	assert.Contains(t, view, "Ana")
}

func TestModel_SwitchesSections(t *testing.T) {
	var calls []time.Time
	m := NewModel(context.Background(), testLoader(&calls), []time.Time{week2}, 0, WithSize(100, 40))
	next := step(t, m, m.Init())

	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Contains(t, next.View(), "House Meal Mon")

	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Contains(t, next.View(), unfilledLabel)

	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Contains(t, next.View(), "no willing person available", "wraps to the last tab")
}

func TestModel_SwitchesWeeks(t *testing.T) {
	var calls []time.Time
	m := NewModel(context.Background(), testLoader(&calls), []time.Time{week1, week2}, 1, WithSize(100, 40))
	next := step(t, m, m.Init())

	updated, cmd := next.Update(keyRune(']'))
	assert.Nil(t, cmd, "already on the last week")

	updated, cmd = updated.Update(keyRune('['))
	updated = step(t, updated, cmd)
	assert.Equal(t, []time.Time{week2, week1}, calls)
	assert.Contains(t, updated.View(), "boom")
	assert.Contains(t, updated.View(), "week of 2026-10-12")
}

func TestModel_QuitAndHelp(t *testing.T) {
	var calls []time.Time
	m := NewModel(context.Background(), testLoader(&calls), []time.Time{week2}, 0, WithHelp(false))
	assert.False(t, m.help.ShowAll)

	next, _ := m.Update(keyRune('?'))
	assert.True(t, next.(Model).help.ShowAll)

	next, cmd := next.Update(keyRune('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, next.View())
}

func TestModel_NoWeeks(t *testing.T) {
	m := NewModel(context.Background(), func(context.Context, time.Time) (*chart.Chart, error) {
		return nil, errors.New("unused")
	}, nil, 0)
	assert.Nil(t, m.Init())
	assert.Contains(t, m.View(), "No scheduled weeks")
}
