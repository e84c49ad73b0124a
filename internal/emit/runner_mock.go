package emit

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockRunner is a mock implementation of Runner for testing.
// It records every invocation and replies with canned output.
type MockRunner struct {
	Output []byte
	Err    error

	mu    sync.Mutex
	calls [][]string
}

// NewMockRunner creates a mock that succeeds with the given output.
func NewMockRunner(output string) *MockRunner {
	return &MockRunner{Output: []byte(output)}
}

func (m *MockRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]string{name}, args...))
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.Output, m.Err
}

// Calls returns the argv of every invocation, in order.
func (m *MockRunner) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([][]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// String returns a human-readable representation of the mock state.
func (m *MockRunner) String() string {
	var argv []string
	for _, call := range m.Calls() {
		argv = append(argv, strings.Join(call, " "))
	}
	return fmt.Sprintf("MockRunner{calls=%q, err=%v}", argv, m.Err)
}
