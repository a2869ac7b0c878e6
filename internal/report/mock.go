package report

import (
	"context"
	"sync"

	"github.com/cellarist/decanter/internal/model"
	"github.com/cellarist/decanter/internal/service"
)

// MockWriter is a mock implementation of ReportWriter for testing.
type MockWriter struct {
	WriteFunc      func(ctx context.Context, wines []model.Wine, runs []model.ImportRun, stats *service.CatalogStats) error
	LastStats      *service.CatalogStats
	WriteCalls     []WriteCall
	LastWines      []model.Wine
	WriteCallCount int
	mu             sync.Mutex
}

// WriteCall represents a single call to Write.
type WriteCall struct {
	Error error
	Stats *service.CatalogStats
	Wines []model.Wine
	Runs  []model.ImportRun
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		WriteCalls: make([]WriteCall, 0),
	}
}

// Write implements the ReportWriter interface.
func (m *MockWriter) Write(ctx context.Context, wines []model.Wine, runs []model.ImportRun, stats *service.CatalogStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount++
	m.LastWines = wines
	m.LastStats = stats

	var err error
	if m.WriteFunc != nil {
		err = m.WriteFunc(ctx, wines, runs, stats)
	}

	m.WriteCalls = append(m.WriteCalls, WriteCall{
		Wines: wines,
		Runs:  runs,
		Stats: stats,
		Error: err,
	})

	return err
}

// Reset clears all recorded calls.
func (m *MockWriter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount = 0
	m.WriteCalls = make([]WriteCall, 0)
	m.LastWines = nil
	m.LastStats = nil
}

// GetWriteCalls returns a copy of all write calls.
func (m *MockWriter) GetWriteCalls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]WriteCall, len(m.WriteCalls))
	copy(calls, m.WriteCalls)
	return calls
}

// SetWriteError configures the mock to return an error on the next Write call.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(_ context.Context, _ []model.Wine, _ []model.ImportRun, _ *service.CatalogStats) error {
		return err
	}
}
