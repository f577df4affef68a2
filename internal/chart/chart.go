// Package chart turns a stored schedule into the printable weekly chore chart.
package chart

import (
	"fmt"
	"sort"
	"time"

	"github.com/Veraticus/chore-chart/internal/availability"
	"github.com/Veraticus/chore-chart/internal/model"
)

// HeaderText asks residents to acknowledge their chores.
const HeaderText = "Please mark the box next to your name in the cell below, to show that you've seen " +
	"(and are OK with) your chores for the week. Also, mark the box next to the chore once you've finished it."

// CleanupDescription is shown beside every meal cleanup and night sweep row.
const CleanupDescription = `At 7:30pm (leave visible note if it must be interrupted):
1) put away all leftovers (with labels);
2) wash all pots, pans, & cooking supplies;
3) completely clear and wipe down counters, stove top & dining tables with all-purpose cleaner;
4) clean sinks and empty drainers;
5) sweep floor.
For "Night Cleanup," only #3-#5, done at night.`

// Fixed section titles.
const (
	SectionMeals        = "Meals"
	SectionNightCleanup = "Night Cleanup"
	SectionDishes       = "Dishes"
)

// DefaultCategoryOrder lists the chore categories printed first, in order.
// Other categories follow alphabetically.
var DefaultCategoryOrder = []string{
	"Main Kitchen",
	"Bathrooms",
	"Other Common Areas",
	"Occasional Tasks",
	"Support Roles",
}

// sharedDescriptionCategories print one description for the whole section.
var sharedDescriptionCategories = map[string]bool{
	"Bathrooms": true,
}

// HoursRow is one line of the hours table.
type HoursRow struct {
	Name       string  `json:"name" yaml:"name"`
	PersonID   int64   `json:"person_id" yaml:"person_id"`
	DaysInTown int     `json:"days_in_town" yaml:"days_in_town"`
	Hours      float64 `json:"hours" yaml:"hours"`
}

// Row is one chore line. An empty Assignee marks an unfilled slot.
type Row struct {
	Label       string  `json:"label" yaml:"label"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Assignee    string  `json:"assignee" yaml:"assignee"`
	Hours       float64 `json:"hours" yaml:"hours"`
}

// Section groups rows under a title. A non-empty Description applies to every row.
type Section struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Rows        []Row  `json:"rows" yaml:"rows"`
}

// Chart is the complete printable chart for one week.
type Chart struct {
	Week       time.Time         `json:"week" yaml:"week"`
	Header     string            `json:"header" yaml:"header"`
	People     []HoursRow        `json:"people" yaml:"people"`
	Sections   []Section         `json:"sections" yaml:"sections"`
	Shortfalls []model.Shortfall `json:"shortfalls,omitempty" yaml:"shortfalls,omitempty"`
	TotalHours float64           `json:"total_hours" yaml:"total_hours"`
}

// Title is the week key, used as the sheet tab name.
func (c *Chart) Title() string {
	return c.Week.Format(model.WeekLayout)
}

// RowCount returns the number of chore rows across all sections.
func (c *Chart) RowCount() int {
	n := 0
	for _, s := range c.Sections {
		n += len(s.Rows)
	}
	return n
}

// Builder assembles charts from stored schedules.
type Builder struct {
	categoryOrder []string
}

// NewBuilder creates a builder. A nil order uses DefaultCategoryOrder.
func NewBuilder(categoryOrder []string) *Builder {
	if categoryOrder == nil {
		categoryOrder = DefaultCategoryOrder
	}
	return &Builder{categoryOrder: categoryOrder}
}

// Build lays out a schedule. People and catalog resolve names and task details.
func (b *Builder) Build(schedule *model.Schedule, catalog *model.Catalog, people []model.Person) (*Chart, error) {
	if schedule == nil || catalog == nil {
		return nil, fmt.Errorf("schedule and catalog are required")
	}

	names := make(map[int64]string, len(people))
	for _, p := range people {
		names[p.ID] = p.DisplayName()
	}
	nameOf := func(id int64) string {
		if name, ok := names[id]; ok {
			return name
		}
		return fmt.Sprintf("#%d", id)
	}

	c := &Chart{
		Week:       schedule.WeekStart,
		Header:     HeaderText,
		TotalHours: schedule.TotalHoursWorked(),
		Shortfalls: schedule.Shortfalls,
	}

	for _, h := range schedule.Hours {
		if h.HoursWorked <= 0 {
			continue
		}
		c.People = append(c.People, HoursRow{
			PersonID:   h.PersonID,
			Name:       nameOf(h.PersonID),
			DaysInTown: h.DaysInTown,
			Hours:      h.HoursWorked,
		})
	}

	slots := newSlotIndex(schedule.Timed)
	c.Sections = append(c.Sections, b.meals(catalog, slots, nameOf)...)
	c.Sections = append(c.Sections, b.nightCleanup(catalog, slots, nameOf)...)
	c.Sections = append(c.Sections, b.dishes(catalog, slots, nameOf)...)

	chores, err := b.chores(schedule.Chores, catalog, nameOf)
	if err != nil {
		return nil, err
	}
	c.Sections = append(c.Sections, chores...)
	return c, nil
}

// slotIndex maps (task, weekday) to the assigned person.
type slotIndex map[[2]int64]int64

func newSlotIndex(timed []model.TimedAssignment) slotIndex {
	idx := make(slotIndex, len(timed))
	for _, a := range timed {
		idx[[2]int64{a.TaskID, int64(a.Weekday)}] = a.PersonID
	}
	return idx
}

func (s slotIndex) get(taskID int64, day int) (int64, bool) {
	id, ok := s[[2]int64{taskID, int64(day)}]
	return id, ok
}

func dayLabel(task model.Task, day int) string {
	return task.Name + " " + availability.DayName(day)
}

// meals lists the cooked days only.
func (b *Builder) meals(catalog *model.Catalog, slots slotIndex, nameOf func(int64) string) []Section {
	task, ok := catalog.RotationTask(model.RotationCook)
	if !ok {
		return nil
	}
	section := Section{Title: SectionMeals, Description: task.Description}
	for day := 0; day < availability.DaysPerWeek; day++ {
		if id, ok := slots.get(task.ID, day); ok {
			section.Rows = append(section.Rows, Row{Label: dayLabel(task, day), Hours: task.DurationHours, Assignee: nameOf(id)})
		}
	}
	if len(section.Rows) == 0 {
		return nil
	}
	return []Section{section}
}

// nightCleanup lists the cleanup crew and sweeps day by day, skipping empty slots.
func (b *Builder) nightCleanup(catalog *model.Catalog, slots slotIndex, nameOf func(int64) string) []Section {
	var tasks []model.Task
	for _, r := range []model.Rotation{model.RotationCleanupLead, model.RotationCleanupHelper, model.RotationNightSweep} {
		if task, ok := catalog.RotationTask(r); ok {
			tasks = append(tasks, task)
		}
	}

	section := Section{Title: SectionNightCleanup, Description: CleanupDescription}
	for day := 0; day < availability.DaysPerWeek; day++ {
		for _, task := range tasks {
			if id, ok := slots.get(task.ID, day); ok {
				section.Rows = append(section.Rows, Row{Label: dayLabel(task, day), Hours: task.DurationHours, Assignee: nameOf(id)})
			}
		}
	}
	if len(section.Rows) == 0 {
		return nil
	}
	return []Section{section}
}

// dishes prints every AM and PM slot, filled or not.
func (b *Builder) dishes(catalog *model.Catalog, slots slotIndex, nameOf func(int64) string) []Section {
	am, hasAM := catalog.RotationTask(model.RotationDishesAM)
	pm, hasPM := catalog.RotationTask(model.RotationDishesPM)
	if !hasAM && !hasPM {
		return nil
	}

	section := Section{Title: SectionDishes}
	if hasAM {
		section.Description = am.Description
	} else {
		section.Description = pm.Description
	}
	for day := 0; day < availability.DaysPerWeek; day++ {
		for _, slot := range []struct {
			task model.Task
			ok   bool
		}{{am, hasAM}, {pm, hasPM}} {
			if !slot.ok {
				continue
			}
			row := Row{Label: dayLabel(slot.task, day), Hours: slot.task.DurationHours}
			if id, ok := slots.get(slot.task.ID, day); ok {
				row.Assignee = nameOf(id)
			}
			section.Rows = append(section.Rows, row)
		}
	}
	return []Section{section}
}

// chores groups the unpinned assignments by category.
func (b *Builder) chores(assignments []model.ChoreAssignment, catalog *model.Catalog, nameOf func(int64) string) ([]Section, error) {
	byCategory := make(map[string][]Row)
	descriptions := make(map[string]string)
	for _, a := range assignments {
		task, ok := catalog.Find(model.TaskRef{Kind: a.Kind, ID: a.TaskID})
		if !ok {
			return nil, fmt.Errorf("assignment references unknown %s task %d", a.Kind, a.TaskID)
		}
		row := Row{Label: task.Name, Hours: task.DurationHours, Assignee: nameOf(a.PersonID)}
		if sharedDescriptionCategories[task.Category] {
			if _, seen := descriptions[task.Category]; !seen {
				descriptions[task.Category] = task.Description
			}
		} else {
			row.Description = task.Description
		}
		byCategory[task.Category] = append(byCategory[task.Category], row)
	}

	sections := make([]Section, 0, len(byCategory))
	for _, category := range b.orderCategories(byCategory) {
		sections = append(sections, Section{
			Title:       category,
			Description: descriptions[category],
			Rows:        byCategory[category],
		})
	}
	return sections, nil
}

func (b *Builder) orderCategories(byCategory map[string][]Row) []string {
	ordered := make([]string, 0, len(byCategory))
	listed := make(map[string]bool, len(b.categoryOrder))
	for _, category := range b.categoryOrder {
		listed[category] = true
		if _, ok := byCategory[category]; ok {
			ordered = append(ordered, category)
		}
	}

	var rest []string
	for category := range byCategory {
		if !listed[category] {
			rest = append(rest, category)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}
