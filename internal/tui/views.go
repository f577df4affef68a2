package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if len(m.weeks) == 0 {
		return m.theme.Subtitle.Render("No scheduled weeks yet. Run `chores schedule --commit` first.") + "\n"
	}

	var b strings.Builder
	b.WriteString(m.renderTitle())
	b.WriteString("\n")

	switch {
	case m.lastError != nil:
		b.WriteString(m.theme.StatusError.Render("Error: " + m.lastError.Error()))
		b.WriteString("\n")
	case m.chart == nil:
		b.WriteString(m.theme.Subtitle.Render("Loading..."))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderTabs())
		b.WriteString("\n")
		b.WriteString(m.theme.BorderedBox.Render(m.table.View()))
		b.WriteString("\n")
	}

	b.WriteString(m.theme.Help.Render(m.help.View(m.keymap)))
	return b.String()
}

func (m Model) renderTitle() string {
	week := m.weeks[m.weekIndex].Format("2006-01-02")
	title := m.theme.Title.Render("Chore chart · week of " + week)
	position := m.theme.Subtitle.Render(fmt.Sprintf("  (%d/%d)", m.weekIndex+1, len(m.weeks)))
	if m.chart != nil {
		position += m.theme.Subtitle.Render(fmt.Sprintf("  total %s h", formatHours(m.chart.TotalHours)))
	}
	if m.loading {
		position += m.theme.Subtitle.Render("  loading...")
	}
	return title + position
}

func (m Model) renderTabs() string {
	rendered := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		style := m.theme.Tab
		if i == m.tab {
			style = m.theme.ActiveTab
		}
		rendered = append(rendered, style.Render(tab))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
