package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Run opens the viewer on weeks[start] and blocks until the user quits.
func Run(ctx context.Context, load ChartLoader, weeks []time.Time, start int, opts ...Option) error {
	if load == nil {
		return fmt.Errorf("chart loader is required")
	}
	m := NewModel(ctx, load, weeks, start, opts...)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("chart viewer failed: %w", err)
	}
	return nil
}
