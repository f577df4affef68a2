package sheets

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/chore-chart/internal/chart"
)

// Checkbox is printed wherever a resident ticks off a line.
const Checkbox = "☐"

// Chart columns, zero-based: category, description, chore, hours, person, done.
const (
	colCategory = iota
	colDescription
	colChore
	colHours
	colPerson
	colDone
	columnCount
)

// columnWidths are pixel widths for columns A through F.
var columnWidths = [columnCount]int64{70, 500, 250, 60, 60, 20}

// Range is a zero-based, end-exclusive block of cells.
type Range struct {
	StartRow, EndRow int
	StartCol, EndCol int
}

// Layout is a chart placed onto the grid, plus the formatting to apply.
type Layout struct {
	Values     [][]any
	Merges     []Range
	Bold       []Range
	Wrapped    []Range
	Titles     []Range // rotated section titles in column A
	Separators []int   // rows that receive a top border
}

// LayoutChart places a chart onto the sheet grid.
func LayoutChart(c *chart.Chart) *Layout {
	l := &Layout{}

	// Header: instructions, then the week and total hours side by side.
	l.addRow("", c.Header)
	l.merge(Range{StartRow: 0, EndRow: 1, StartCol: colDescription, EndCol: colPerson + 1})
	l.Wrapped = append(l.Wrapped, cellRange(0, colDescription))

	l.addRow("", "Week of "+c.Title(), "", "Total hours: "+formatHours(c.TotalHours))
	l.merge(Range{StartRow: 1, EndRow: 2, StartCol: colDescription, EndCol: colChore + 1})
	l.merge(Range{StartRow: 1, EndRow: 2, StartCol: colHours, EndCol: colPerson + 1})
	l.Bold = append(l.Bold, Range{StartRow: 1, EndRow: 2, StartCol: colDescription, EndCol: colPerson + 1})

	l.Separators = append(l.Separators, len(l.Values))
	l.addRow("", "Name", "Days in town", "Hours", "Accept")
	for _, p := range c.People {
		l.addRow("", p.Name, fmt.Sprintf("%dd", p.DaysInTown), formatHours(p.Hours)+" hrs", Checkbox)
	}

	l.Separators = append(l.Separators, len(l.Values))

	for _, section := range c.Sections {
		if len(section.Rows) == 0 {
			continue
		}
		l.addSection(section)
		l.Separators = append(l.Separators, len(l.Values))
	}

	return l
}

func (l *Layout) addSection(section chart.Section) {
	first := len(l.Values)
	last := first + len(section.Rows)

	for i, row := range section.Rows {
		category := ""
		description := row.Description
		if i == 0 {
			category = section.Title
			if section.Description != "" {
				description = section.Description
			}
		}
		l.addRow(category, description, row.Label, row.Hours, row.Assignee, Checkbox)
	}

	title := Range{StartRow: first, EndRow: last, StartCol: colCategory, EndCol: colCategory + 1}
	l.merge(title)
	l.Titles = append(l.Titles, title)

	descriptions := Range{StartRow: first, EndRow: last, StartCol: colDescription, EndCol: colDescription + 1}
	if section.Description != "" {
		l.merge(descriptions)
	}
	l.Wrapped = append(l.Wrapped, descriptions)
	l.Bold = append(l.Bold, Range{StartRow: first, EndRow: last, StartCol: colChore, EndCol: colChore + 1})
}

func (l *Layout) addRow(cells ...any) {
	l.Values = append(l.Values, cells)
}

// merge records r unless it is a single cell.
func (l *Layout) merge(r Range) {
	if r.EndRow-r.StartRow > 1 || r.EndCol-r.StartCol > 1 {
		l.Merges = append(l.Merges, r)
	}
}

func cellRange(row, col int) Range {
	return Range{StartRow: row, EndRow: row + 1, StartCol: col, EndCol: col + 1}
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
