package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Veraticus/chore-chart/internal/availability"
	"github.com/Veraticus/chore-chart/internal/chart"
	"github.com/Veraticus/chore-chart/internal/model"
	"github.com/Veraticus/chore-chart/internal/storage"
)

// Unfilled is printed in place of an assignee for an empty slot.
const Unfilled = "(unfilled)"

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
}

// FormatHours prints hours without trailing zeros.
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// RenderChart renders a chart for the terminal.
func RenderChart(c *chart.Chart) string {
	var b strings.Builder

	b.WriteString(FormatTitle("Chore chart for the week of " + c.Title()))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("Total hours: %s", FormatHours(c.TotalHours))))
	b.WriteString("\n")

	if len(c.People) > 0 {
		hours := newTable("Name", "Days", "Hours")
		for _, p := range c.People {
			hours.Row(p.Name, strconv.Itoa(p.DaysInTown), FormatHours(p.Hours))
		}
		b.WriteString(hours.Render())
		b.WriteString("\n")
	}

	for _, section := range c.Sections {
		if len(section.Rows) == 0 {
			continue
		}
		b.WriteString(SectionStyle.Render(section.Title))
		b.WriteString("\n")
		t := newTable("Chore", "Hours", "Assignee")
		for _, row := range section.Rows {
			assignee := row.Assignee
			if assignee == "" {
				assignee = UnfilledStyle.Render(Unfilled)
			}
			t.Row(row.Label, FormatHours(row.Hours), assignee)
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	if len(c.Shortfalls) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatWarning(fmt.Sprintf("%d slot(s) could not be filled:", len(c.Shortfalls))))
		b.WriteString("\n")
		for _, s := range c.Shortfalls {
			when := ""
			if s.Weekday >= 0 {
				when = " " + availability.DayName(s.Weekday)
			}
			b.WriteString(WarningStyle.Render(fmt.Sprintf("  • %s%s: %s", s.Task, when, s.Reason)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderCheckpoints renders the checkpoint list.
func RenderCheckpoints(checkpoints []storage.CheckpointInfo) string {
	if len(checkpoints) == 0 {
		return FormatInfo("No checkpoints found.")
	}
	t := newTable("ID", "Created", "Type", "Weeks", "People", "Size", "Description")
	for _, cp := range checkpoints {
		kind := "manual"
		if cp.IsAuto {
			kind = "auto"
		}
		t.Row(
			cp.ID,
			cp.CreatedAt.Local().Format("2006-01-02 15:04"),
			kind,
			strconv.Itoa(cp.Weeks),
			strconv.Itoa(cp.People),
			formatBytes(cp.FileSize),
			cp.Description,
		)
	}
	return t.Render()
}

// RenderRequests renders each person's availability for a week as day lists.
// People without a request are shown as away.
func RenderRequests(people []model.Person, requests []model.AvailabilityRequest) string {
	if len(people) == 0 {
		return FormatInfo("Nobody is on the roster.")
	}
	byPerson := make(map[int64]model.AvailabilityRequest, len(requests))
	for _, r := range requests {
		byPerson[r.PersonID] = r
	}

	headers := []string{"ID", "Name"}
	for _, a := range model.Activities {
		headers = append(headers, string(a))
	}
	t := newTable(headers...)
	for _, p := range people {
		req, ok := byPerson[p.ID]
		row := []string{strconv.FormatInt(p.ID, 10), p.DisplayName()}
		for _, a := range model.Activities {
			if !ok {
				row = append(row, UnfilledStyle.Render("-"))
				continue
			}
			row = append(row, availability.Format(req.Mask(a)))
		}
		t.Row(row...)
	}
	return t.Render()
}

// RenderProblems renders a list of consistency problems, or a success line.
func RenderProblems(problems []string) string {
	if len(problems) == 0 {
		return FormatSuccess("Household data is consistent.")
	}
	var b strings.Builder
	b.WriteString(FormatWarning(fmt.Sprintf("Found %d problem(s):", len(problems))))
	b.WriteString("\n")
	for _, p := range problems {
		b.WriteString(ErrorStyle.Render("  " + ErrorIcon + " " + p))
		b.WriteString("\n")
	}
	return b.String()
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
