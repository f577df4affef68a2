package engine

import "sort"

// affordEpsilon absorbs float drift from the per-person rate division.
const affordEpsilon = 1e-9

// Ledger tracks each person's remaining chore hours for one run.
// Hours only ever go down.
type Ledger struct {
	remaining map[int64]float64
}

// NewLedger seeds a ledger from planned targets. The seed map is copied.
func NewLedger(seed map[int64]float64) *Ledger {
	remaining := make(map[int64]float64, len(seed))
	for id, hours := range seed {
		remaining[id] = hours
	}
	return &Ledger{remaining: remaining}
}

// Remaining returns a person's unspent hours. Unknown people have none.
func (l *Ledger) Remaining(personID int64) float64 {
	return l.remaining[personID]
}

// CanAfford reports whether a person has at least cost hours left.
func (l *Ledger) CanAfford(personID int64, cost float64) bool {
	hours, ok := l.remaining[personID]
	if !ok {
		return false
	}
	return hours+affordEpsilon >= cost
}

// Deduct spends cost hours if the person can afford them.
func (l *Ledger) Deduct(personID int64, cost float64) bool {
	if !l.CanAfford(personID, cost) {
		return false
	}
	l.remaining[personID] -= cost
	return true
}

// Snapshot returns a copy of the remaining hours.
func (l *Ledger) Snapshot() map[int64]float64 {
	out := make(map[int64]float64, len(l.remaining))
	for id, hours := range l.remaining {
		out[id] = hours
	}
	return out
}

// People returns the person IDs in the ledger, ascending.
func (l *Ledger) People() []int64 {
	ids := make([]int64, 0, len(l.remaining))
	for id := range l.remaining {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
