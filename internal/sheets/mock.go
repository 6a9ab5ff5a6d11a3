package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/ageing-report/internal/layout"
)

// MockWriter is a mock implementation of ReportWriter for testing.
type MockWriter struct {
	WriteFunc      func(ctx context.Context, set *layout.SheetSet) (string, error)
	LastSet        *layout.SheetSet
	WriteCalls     []WriteCall
	Location       string
	WriteCallCount int
	mu             sync.Mutex
}

// WriteCall represents a single call to Write.
type WriteCall struct {
	Error error
	Set   *layout.SheetSet
}

// NewMockWriter creates a new mock writer reporting location on success.
func NewMockWriter(location string) *MockWriter {
	return &MockWriter{
		Location:   location,
		WriteCalls: make([]WriteCall, 0),
	}
}

// Write implements the ReportWriter interface.
func (m *MockWriter) Write(ctx context.Context, set *layout.SheetSet) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount++
	m.LastSet = set

	location := m.Location
	var err error
	if m.WriteFunc != nil {
		location, err = m.WriteFunc(ctx, set)
	}

	m.WriteCalls = append(m.WriteCalls, WriteCall{Set: set, Error: err})
	if err != nil {
		return "", err
	}
	return location, nil
}

// Reset clears all recorded calls.
func (m *MockWriter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount = 0
	m.WriteCalls = make([]WriteCall, 0)
	m.LastSet = nil
}

// GetWriteCalls returns a copy of all write calls.
func (m *MockWriter) GetWriteCalls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]WriteCall, len(m.WriteCalls))
	copy(calls, m.WriteCalls)
	return calls
}

// SetWriteError configures the mock to fail every Write call with err.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(_ context.Context, _ *layout.SheetSet) (string, error) {
		return "", err
	}
}
