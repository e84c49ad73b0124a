package emit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DumpExt is the extension of SIL dump files.
const DumpExt = ".sil"

// ErrEmitFailed indicates that the compiler could not produce a dump.
var ErrEmitFailed = errors.New("failed to emit sil")

// Config holds the compiler invocation settings.
type Config struct {
	Compiler  string        // compiler executable, e.g. "swiftc"
	Flags     []string      // flags placed before the source path, e.g. ["-O", "-emit-sil"]
	OutputDir string        // directory receiving the dump
	Timeout   time.Duration // 0 means wait for the compiler indefinitely
}

// Failure describes a compiler invocation that did not succeed.
// Output holds whatever the compiler printed before failing.
type Failure struct {
	Source string
	Output []byte
	Err    error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("failed to emit sil for %s: %v", f.Source, f.Err)
}

func (f *Failure) Unwrap() []error {
	return []error{ErrEmitFailed, f.Err}
}

// Emitter runs the compiler on a source file and stores the SIL dump.
type Emitter struct {
	cfg    Config
	runner Runner
}

// New creates an Emitter. A nil runner uses the real process runner.
func New(cfg Config, runner Runner) *Emitter {
	if runner == nil {
		runner = NewRunner()
	}
	return &Emitter{cfg: cfg, runner: runner}
}

// Command returns the argv used to compile source: compiler, flags, then source.
// The source path is passed through unvalidated.
func (e *Emitter) Command(source string) []string {
	argv := make([]string, 0, len(e.cfg.Flags)+2)
	argv = append(argv, e.cfg.Compiler)
	argv = append(argv, e.cfg.Flags...)
	argv = append(argv, source)
	return argv
}

// BaseName returns the basename of path without its final extension.
// "Sources/App/Example.swift" -> "Example".
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DumpPath returns where the dump for source is written: <outputDir>/<base>.sil.
func DumpPath(outputDir, source string) string {
	return filepath.Join(outputDir, BaseName(source)+DumpExt)
}

// Emit compiles source and writes the captured output verbatim to DumpPath.
// Returns the dump path on success. A failed compiler run yields a *Failure
// and no file is written.
func (e *Emitter) Emit(ctx context.Context, source string) (string, error) {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	argv := e.Command(source)
	output, err := e.runner.Run(ctx, argv[0], argv[1:]...)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("compiler timed out (%s)", e.cfg.Timeout)
		}
		return "", &Failure{Source: source, Output: output, Err: err}
	}

	dumpPath := DumpPath(e.cfg.OutputDir, source)
	if err := os.WriteFile(dumpPath, output, 0644); err != nil {
		return "", fmt.Errorf("failed to write dump %s: %w", dumpPath, err)
	}

	return dumpPath, nil
}
