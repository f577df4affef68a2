package model

import (
	"fmt"
	"strings"
	"time"
)

// Activity is one requestable kind of availability.
type Activity string

const (
	ActivityInTown     Activity = "in_town"
	ActivityCook       Activity = "cook"
	ActivityCleanup    Activity = "cleanup"
	ActivityNightSweep Activity = "night_sweep"
	ActivityDishesAM   Activity = "dishes_am"
	ActivityDishesPM   Activity = "dishes_pm"
)

// Activities lists every activity in storage column order.
var Activities = []Activity{
	ActivityInTown,
	ActivityCook,
	ActivityCleanup,
	ActivityNightSweep,
	ActivityDishesAM,
	ActivityDishesPM,
}

// ParseActivity converts a string into an Activity.
func ParseActivity(s string) (Activity, error) {
	a := Activity(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Activities {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown activity %q", s)
}

// AvailabilityRequest holds one person's weekday masks for a target week.
// Bit i of each mask means available on weekday i, Monday = 0.
type AvailabilityRequest struct {
	WeekStart  time.Time
	PersonID   int64
	InTown     int
	Cook       int
	Cleanup    int
	NightSweep int
	DishesAM   int
	DishesPM   int
}

// Mask returns the mask for an activity.
func (r AvailabilityRequest) Mask(a Activity) int {
	switch a {
	case ActivityInTown:
		return r.InTown
	case ActivityCook:
		return r.Cook
	case ActivityCleanup:
		return r.Cleanup
	case ActivityNightSweep:
		return r.NightSweep
	case ActivityDishesAM:
		return r.DishesAM
	case ActivityDishesPM:
		return r.DishesPM
	default:
		return 0
	}
}

// SetMask sets the mask for an activity.
func (r *AvailabilityRequest) SetMask(a Activity, mask int) {
	switch a {
	case ActivityInTown:
		r.InTown = mask
	case ActivityCook:
		r.Cook = mask
	case ActivityCleanup:
		r.Cleanup = mask
	case ActivityNightSweep:
		r.NightSweep = mask
	case ActivityDishesAM:
		r.DishesAM = mask
	case ActivityDishesPM:
		r.DishesPM = mask
	}
}
