package engine

import (
	"fmt"
	"sort"

	"github.com/Veraticus/chore-chart/internal/availability"
	"github.com/Veraticus/chore-chart/internal/model"
)

// weekAvailability holds decoded day sets per person per activity.
type weekAvailability struct {
	days   map[model.Activity]map[int64][]int
	people []int64 // roster order, ascending ID
}

func decodeAvailability(people []model.Person, requests []model.AvailabilityRequest) (*weekAvailability, error) {
	onRoster := make(map[int64]bool, len(people))
	ids := make([]int64, 0, len(people))
	for _, p := range people {
		onRoster[p.ID] = true
		ids = append(ids, p.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	wa := &weekAvailability{
		days:   make(map[model.Activity]map[int64][]int, len(model.Activities)),
		people: ids,
	}
	for _, a := range model.Activities {
		wa.days[a] = make(map[int64][]int)
	}

	for _, req := range requests {
		if !onRoster[req.PersonID] {
			continue
		}
		for _, a := range model.Activities {
			days, err := availability.Weekdays(req.Mask(a))
			if err != nil {
				return nil, fmt.Errorf("person %d %s: %w", req.PersonID, a, err)
			}
			if len(days) > 0 {
				wa.days[a][req.PersonID] = days
			}
		}
	}
	return wa, nil
}

// Days returns a person's available days for an activity.
func (wa *weekAvailability) Days(a model.Activity, personID int64) []int {
	return wa.days[a][personID]
}

// DaysInTown returns the in-town day count of every roster member.
func (wa *weekAvailability) DaysInTown() map[int64]int {
	counts := make(map[int64]int, len(wa.people))
	for _, id := range wa.people {
		counts[id] = len(wa.days[model.ActivityInTown][id])
	}
	return counts
}

// availableOn reports whether a person is available for an activity on a day.
func (wa *weekAvailability) availableOn(a model.Activity, personID int64, day int) bool {
	for _, d := range wa.days[a][personID] {
		if d == day {
			return true
		}
	}
	return false
}

// candidate is one person competing for a duty.
type candidate struct {
	days       []int
	personID   int64
	preference int
	dayCount   int
}

func (c *candidate) availableOn(day int) bool {
	for _, d := range c.days {
		if d == day {
			return true
		}
	}
	return false
}

func (c *candidate) release(day int) {
	for i, d := range c.days {
		if d == day {
			c.days = append(c.days[:i:i], c.days[i+1:]...)
			return
		}
	}
}

// pool builds candidates for everyone with at least one day of an activity.
func (wa *weekAvailability) pool(a model.Activity) []*candidate {
	out := make([]*candidate, 0, len(wa.days[a]))
	for _, id := range wa.people {
		days := wa.days[a][id]
		if len(days) == 0 {
			continue
		}
		own := make([]int, len(days))
		copy(own, days)
		out = append(out, &candidate{personID: id, days: own, dayCount: len(days)})
	}
	return out
}

// rankCandidates orders candidates by preference descending, then by
// availability count ascending so scarcer people win ties, then by person ID.
func rankCandidates(cands []*candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.preference != b.preference {
			return a.preference > b.preference
		}
		if a.dayCount != b.dayCount {
			return a.dayCount < b.dayCount
		}
		return a.personID < b.personID
	})
}

// withPreference fills in preferences for a task, drops unwilling people and ranks the rest.
func withPreference(cands []*candidate, prefs model.Preferences, task string) []*candidate {
	out := make([]*candidate, 0, len(cands))
	for _, c := range cands {
		c.preference = prefs.Get(c.personID, task)
		if c.preference > 0 {
			out = append(out, c)
		}
	}
	rankCandidates(out)
	return out
}
