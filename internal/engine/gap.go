package engine

import (
	"sort"

	"github.com/Veraticus/chore-chart/internal/availability"
)

// MaxGap returns the largest circular distance between consecutive days in a
// 7-day cycle. Sunday and the following Monday are adjacent. An empty set
// has a gap of a full week.
func MaxGap(days []int) int {
	if len(days) == 0 {
		return availability.DaysPerWeek
	}
	sorted := make([]int, len(days), len(days)+1)
	copy(sorted, days)
	sort.Ints(sorted)
	sorted = append(sorted, sorted[0]+availability.DaysPerWeek)

	maxGap := 0
	for i := 0; i < len(sorted)-1; i++ {
		if gap := sorted[i+1] - sorted[i]; gap > maxGap {
			maxGap = gap
		}
	}
	return maxGap
}
