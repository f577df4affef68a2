package tui

import (
	"time"

	"github.com/Veraticus/chore-chart/internal/chart"
)

// chartLoadedMsg carries a loaded week, or the error loading it.
type chartLoadedMsg struct {
	err   error
	chart *chart.Chart
	week  time.Time
}
