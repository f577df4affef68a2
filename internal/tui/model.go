// Package tui is the interactive chart viewer.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/chore-chart/internal/availability"
	"github.com/Veraticus/chore-chart/internal/chart"
	"github.com/Veraticus/chore-chart/internal/tui/themes"
)

// ChartLoader fetches the chart of one week.
type ChartLoader func(ctx context.Context, week time.Time) (*chart.Chart, error)

const (
	tabHours      = "Hours"
	tabShortfalls = "Shortfalls"
	unfilledLabel = "(unfilled)"
	// chrome is the number of lines around the table: title, tabs, table header and footer.
	chrome = 8
)

// Model holds the viewer state.
type Model struct {
	ctx       context.Context
	theme     themes.Theme
	lastError error
	load      ChartLoader
	chart     *chart.Chart
	keymap    KeyMap
	help      help.Model
	weeks     []time.Time
	tabs      []string
	table     table.Model
	weekIndex int
	tab       int
	width     int
	height    int
	loading   bool
	quitting  bool
}

// NewModel creates a viewer over weeks, starting at weeks[start].
func NewModel(ctx context.Context, load ChartLoader, weeks []time.Time, start int, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	t := table.New(table.WithFocused(true))
	styles := table.DefaultStyles()
	styles.Header = cfg.Theme.Header
	styles.Selected = cfg.Theme.Selected
	t.SetStyles(styles)

	h := help.New()
	h.ShowAll = cfg.ShowHelp

	if start < 0 || start >= len(weeks) {
		start = len(weeks) - 1
	}

	m := Model{
		ctx:       ctx,
		theme:     cfg.Theme,
		load:      load,
		keymap:    DefaultKeyMap(),
		help:      h,
		weeks:     weeks,
		table:     t,
		weekIndex: start,
		width:     cfg.Width,
		height:    cfg.Height,
		loading:   len(weeks) > 0,
	}
	m.resize()
	return m
}

// Init loads the starting week.
func (m Model) Init() tea.Cmd {
	if len(m.weeks) == 0 {
		return nil
	}
	return m.loadWeek(m.weeks[m.weekIndex])
}

func (m Model) loadWeek(week time.Time) tea.Cmd {
	ctx, load := m.ctx, m.load
	return func() tea.Msg {
		c, err := load(ctx, week)
		return chartLoadedMsg{week: week, chart: c, err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case chartLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.lastError = fmt.Errorf("failed to load week %s: %w", msg.week.Format("2006-01-02"), msg.err)
			return m, nil
		}
		m.lastError = nil
		m.chart = msg.chart
		m.tabs = tabsFor(msg.chart)
		if m.tab >= len(m.tabs) {
			m.tab = 0
		}
		m.refreshTable()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil

	case key.Matches(msg, m.keymap.NextSection):
		if len(m.tabs) > 0 {
			m.tab = (m.tab + 1) % len(m.tabs)
			m.refreshTable()
		}
		return m, nil

	case key.Matches(msg, m.keymap.PrevSection):
		if len(m.tabs) > 0 {
			m.tab = (m.tab + len(m.tabs) - 1) % len(m.tabs)
			m.refreshTable()
		}
		return m, nil

	case key.Matches(msg, m.keymap.NextWeek):
		return m.switchWeek(1)

	case key.Matches(msg, m.keymap.PrevWeek):
		return m.switchWeek(-1)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) switchWeek(delta int) (tea.Model, tea.Cmd) {
	next := m.weekIndex + delta
	if m.loading || next < 0 || next >= len(m.weeks) {
		return m, nil
	}
	m.weekIndex = next
	m.loading = true
	return m, m.loadWeek(m.weeks[next])
}

func (m *Model) resize() {
	footer := 1
	if m.help.ShowAll {
		footer = 4
	}
	height := m.height - chrome - footer
	if height < 3 {
		height = 3
	}
	m.table.SetHeight(height)
	m.help.Width = m.width
}

func tabsFor(c *chart.Chart) []string {
	tabs := []string{tabHours}
	for _, s := range c.Sections {
		if len(s.Rows) > 0 {
			tabs = append(tabs, s.Title)
		}
	}
	if len(c.Shortfalls) > 0 {
		tabs = append(tabs, tabShortfalls)
	}
	return tabs
}

// refreshTable loads the rows of the current tab into the table.
func (m *Model) refreshTable() {
	if m.chart == nil || len(m.tabs) == 0 {
		return
	}
	columns, rows := m.tabContents(m.tabs[m.tab])

	// Rows must be cleared before the column count changes.
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m Model) tabContents(tab string) ([]table.Column, []table.Row) {
	switch tab {
	case tabHours:
		columns := []table.Column{
			{Title: "Name", Width: 20},
			{Title: "Days", Width: 6},
			{Title: "Hours", Width: 8},
		}
		rows := make([]table.Row, 0, len(m.chart.People))
		for _, p := range m.chart.People {
			rows = append(rows, table.Row{p.Name, strconv.Itoa(p.DaysInTown), formatHours(p.Hours)})
		}
		return columns, rows

	case tabShortfalls:
		columns := []table.Column{
			{Title: "Task", Width: 28},
			{Title: "Day", Width: 5},
			{Title: "Reason", Width: 32},
		}
		rows := make([]table.Row, 0, len(m.chart.Shortfalls))
		for _, s := range m.chart.Shortfalls {
			day := ""
			if s.Weekday >= 0 {
				day = availability.DayName(s.Weekday)
			}
			rows = append(rows, table.Row{s.Task, day, s.Reason})
		}
		return columns, rows
	}

	columns := []table.Column{
		{Title: "Chore", Width: 32},
		{Title: "Hours", Width: 6},
		{Title: "Assignee", Width: 20},
	}
	var rows []table.Row
	for _, section := range m.chart.Sections {
		if section.Title != tab {
			continue
		}
		for _, r := range section.Rows {
			assignee := r.Assignee
			if assignee == "" {
				assignee = unfilledLabel
			}
			rows = append(rows, table.Row{r.Label, formatHours(r.Hours), assignee})
		}
	}
	return columns, rows
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
