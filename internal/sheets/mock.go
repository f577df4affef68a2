package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/chore-chart/internal/chart"
)

// MockWriter is a mock implementation of service.ChartWriter for testing.
type MockWriter struct {
	WriteFunc      func(ctx context.Context, c *chart.Chart) error
	LastChart      *chart.Chart
	WriteCalls     []WriteCall
	WriteCallCount int
	mu             sync.Mutex
}

// WriteCall represents a single call to Write.
type WriteCall struct {
	Error error
	Chart *chart.Chart
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		WriteCalls: make([]WriteCall, 0),
	}
}

// Write records the call and returns the configured error.
func (m *MockWriter) Write(ctx context.Context, c *chart.Chart) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount++
	m.LastChart = c

	var err error
	if m.WriteFunc != nil {
		err = m.WriteFunc(ctx, c)
	}

	m.WriteCalls = append(m.WriteCalls, WriteCall{Chart: c, Error: err})
	return err
}

// GetWriteCalls returns a copy of all write calls.
func (m *MockWriter) GetWriteCalls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]WriteCall, len(m.WriteCalls))
	copy(calls, m.WriteCalls)
	return calls
}

// SetWriteError configures the mock to return an error on every Write call.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(_ context.Context, _ *chart.Chart) error {
		return err
	}
}
