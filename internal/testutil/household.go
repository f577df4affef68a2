package testutil

import (
	"testing"
	"time"

	"github.com/Veraticus/chore-chart/internal/availability"
	"github.com/Veraticus/chore-chart/internal/model"
)

// Standard daily task names, one per rotation.
const (
	TaskHouseMeal     = "House Meal"
	TaskCleanupLead   = "Meal Cleanup Lead"
	TaskCleanupHelper = "Meal Cleanup Helper"
	TaskNightCleanup  = "Night Cleanup"
	TaskDishesAM      = "Unload Dishes AM"
	TaskDishesPM      = "Unload Dishes PM"
	TaskMainBathroom  = "Bathrm, Main"
)

// StandardCatalog returns a catalog holding one daily task per rotation and
// the primary weekly task.
func StandardCatalog() *model.Catalog {
	catalog := &model.Catalog{}
	daily := []struct {
		name     string
		category string
		rotation model.Rotation
		hours    float64
	}{
		{TaskHouseMeal, "Meals", model.RotationCook, 2.5},
		{TaskCleanupLead, "Meal Cleanup", model.RotationCleanupLead, 1},
		{TaskCleanupHelper, "Meal Cleanup", model.RotationCleanupHelper, 1},
		{TaskNightCleanup, "Meal Cleanup", model.RotationNightSweep, 0.5},
		{TaskDishesAM, "Dishes", model.RotationDishesAM, 0.5},
		{TaskDishesPM, "Dishes", model.RotationDishesPM, 0.5},
	}
	for i, d := range daily {
		catalog.Add(model.Task{
			ID:            int64(i + 1),
			Name:          d.name,
			Category:      d.category,
			Kind:          model.TaskKindDaily,
			Rotation:      d.rotation,
			DurationHours: d.hours,
		})
	}
	catalog.Add(model.Task{
		ID:            1,
		Name:          TaskMainBathroom,
		Category:      "Bathrooms",
		Kind:          model.TaskKindWeekly,
		DurationHours: 1.5,
	})
	return catalog
}

// Household is a fluent builder for one week of engine input.
type Household struct {
	t            *testing.T
	week         time.Time
	catalog      *model.Catalog
	prefs        model.Preferences
	deficits     map[int64]float64
	lastDone     map[model.TaskRef]time.Time
	people       []model.Person
	requests     []model.AvailabilityRequest
	nextPersonID int64
}

// NewHousehold starts a household for the week beginning on the given Monday,
// with the standard catalog.
func NewHousehold(t *testing.T, week time.Time) *Household {
	t.Helper()
	return &Household{
		t:            t,
		week:         model.Monday(week),
		catalog:      StandardCatalog(),
		prefs:        model.Preferences{},
		deficits:     make(map[int64]float64),
		lastDone:     make(map[model.TaskRef]time.Time),
		nextPersonID: 1,
	}
}

// WithPerson adds an active full-load resident and returns the builder.
// Their ID is assigned in insertion order starting at 1.
func (h *Household) WithPerson(name string) *Household {
	return h.WithMember(model.Person{FirstName: name, LoadFraction: 1, Active: true})
}

// WithMember adds a person as given, assigning an ID when none is set.
func (h *Household) WithMember(p model.Person) *Household {
	h.t.Helper()
	if p.ID == 0 {
		p.ID = h.nextPersonID
	}
	if p.ID >= h.nextPersonID {
		h.nextPersonID = p.ID + 1
	}
	h.people = append(h.people, p)
	return h
}

// Available sets every activity mask for a person to the given days.
func (h *Household) Available(personID int64, days ...int) *Household {
	mask := availability.Mask(days...)
	req := h.request(personID)
	for _, a := range model.Activities {
		req.SetMask(a, mask)
	}
	return h
}

// AvailableFor sets one activity mask for a person.
func (h *Household) AvailableFor(personID int64, activity model.Activity, days ...int) *Household {
	h.request(personID).SetMask(activity, availability.Mask(days...))
	return h
}

// Prefers sets a preference weight for each named task.
func (h *Household) Prefers(personID int64, weight int, tasks ...string) *Household {
	for _, task := range tasks {
		h.prefs.Set(personID, task, weight)
	}
	return h
}

// PrefersEverything gives a person weight 1 for every catalog task.
func (h *Household) PrefersEverything(personID int64) *Household {
	return h.Prefers(personID, 1, h.catalog.Names()...)
}

// WithTask adds a task to the catalog.
func (h *Household) WithTask(task model.Task) *Household {
	h.t.Helper()
	if err := task.Validate(); err != nil {
		h.t.Fatalf("invalid fixture task: %v", err)
	}
	h.catalog.Add(task)
	return h
}

// WithDeficit carries leftover hours from the previous week.
func (h *Household) WithDeficit(personID int64, hours float64) *Household {
	h.deficits[personID] = hours
	return h
}

// LastPerformed records when a task was last assigned.
func (h *Household) LastPerformed(kind model.TaskKind, taskID int64, when time.Time) *Household {
	h.lastDone[model.TaskRef{Kind: kind, ID: taskID}] = when
	return h
}

func (h *Household) request(personID int64) *model.AvailabilityRequest {
	for i := range h.requests {
		if h.requests[i].PersonID == personID {
			return &h.requests[i]
		}
	}
	h.requests = append(h.requests, model.AvailabilityRequest{WeekStart: h.week, PersonID: personID})
	return &h.requests[len(h.requests)-1]
}

// Week returns the Monday the household plans for.
func (h *Household) Week() time.Time { return h.week }

// People returns the roster.
func (h *Household) People() []model.Person { return h.people }

// Catalog returns the task catalog.
func (h *Household) Catalog() *model.Catalog { return h.catalog }

// Requests returns the week's availability requests.
func (h *Household) Requests() []model.AvailabilityRequest { return h.requests }

// Preferences returns the preference table.
func (h *Household) Preferences() model.Preferences { return h.prefs }

// Deficits returns carried leftover hours.
func (h *Household) Deficits() map[int64]float64 { return h.deficits }

// History returns the last-performed dates.
func (h *Household) History() map[model.TaskRef]time.Time { return h.lastDone }
