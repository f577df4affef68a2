package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/chore-chart/internal/availability"
)

func TestLedger_Deduct(t *testing.T) {
	seed := map[int64]float64{1: 3, 2: 0.5}
	ledger := NewLedger(seed)

	require.True(t, ledger.Deduct(1, 2.5))
	assert.InDelta(t, 0.5, ledger.Remaining(1), 1e-9)

	assert.False(t, ledger.Deduct(1, 1), "cannot overspend")
	assert.InDelta(t, 0.5, ledger.Remaining(1), 1e-9, "failed deduction leaves hours untouched")

	require.True(t, ledger.Deduct(2, 0.5))
	assert.InDelta(t, 0, ledger.Remaining(2), 1e-9)

	assert.False(t, ledger.CanAfford(99, 0), "unknown people cannot take work")
	assert.Equal(t, []int64{1, 2}, ledger.People())

	seed[1] = 100
	assert.InDelta(t, 0.5, ledger.Remaining(1), 1e-9, "seed map is copied")
}

func TestLedger_NeverIncreases(t *testing.T) {
	ledger := NewLedger(map[int64]float64{1: 6})
	costs := []float64{2.5, 1, 4, 0.5, 0.5, 3, 0.5, 1}

	previous := ledger.Remaining(1)
	for _, cost := range costs {
		ledger.Deduct(1, cost)
		current := ledger.Remaining(1)
		assert.LessOrEqual(t, current, previous)
		assert.GreaterOrEqual(t, current, -affordEpsilon)
		previous = current
	}

	snap := ledger.Snapshot()
	snap[1] = 50
	assert.InDelta(t, previous, ledger.Remaining(1), 1e-9)
}

func TestMaxGap(t *testing.T) {
	tests := []struct {
		name string
		days []int
		want int
	}{
		{"no days", nil, 7},
		{"one day", []int{3}, 7},
		{"monday and thursday", []int{0, 3}, 4},
		{"unsorted input", []int{5, 1, 3}, 3},
		{"wraps sunday to monday", []int{0, 6}, 6},
		{"every day", []int{0, 1, 2, 3, 4, 5, 6}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaxGap(tt.days))
		})
	}
}

func TestMaxGap_Properties(t *testing.T) {
	for mask := 1; mask <= availability.FullWeek; mask++ {
		days, err := availability.Weekdays(mask)
		require.NoError(t, err)

		gap := MaxGap(days)
		n := len(days)
		assert.GreaterOrEqual(t, gap*n, availability.DaysPerWeek, "mask %d: gap below 7/n", mask)

		for shift := 1; shift < availability.DaysPerWeek; shift++ {
			rotated := make([]int, n)
			for i, d := range days {
				rotated[i] = (d + shift) % availability.DaysPerWeek
			}
			assert.Equal(t, gap, MaxGap(rotated), "mask %d rotated by %d", mask, shift)
		}
	}
}
