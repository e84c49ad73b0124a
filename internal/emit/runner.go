package emit

import (
	"context"
	"os/exec"
)

// Runner executes an external command and returns its combined stdout/stderr.
// This allows mocking the compiler in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner is the real implementation using exec.CommandContext.
type execRunner struct{}

// NewRunner returns the default process runner.
func NewRunner() Runner {
	return &execRunner{}
}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	// Build argv directly, never through a shell.
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}
