// Package pipeline runs the two silbolt steps in order: emit the SIL dump for
// the configured source, then extract the configured functions from it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/mvp-joe/silbolt/internal/config"
	"github.com/mvp-joe/silbolt/internal/emit"
	"github.com/mvp-joe/silbolt/internal/extract"
)

// Options wires optional collaborators into a Pipeline.
type Options struct {
	Runner   emit.Runner              // nil uses the real process runner
	Progress extract.ProgressReporter // nil disables progress reporting
	Logger   *log.Logger              // nil uses the standard logger
	Verbose  bool                     // log compiler output when emitting fails
}

// Result is the outcome of one pipeline run.
type Result struct {
	Source   string
	DumpPath string          // where the dump is expected, whether or not emitting succeeded
	EmitErr  error           // nil when the dump was written
	Report   *extract.Report // per-function extraction outcomes
}

// Pipeline runs Emitter then Extractor for one configuration.
// Runs are serialized; concurrent callers (watch mode, MCP) wait their turn.
type Pipeline struct {
	cfg       *config.Config
	emitter   *emit.Emitter
	extractor *extract.Extractor
	logger    *log.Logger
	verbose   bool
	mu        sync.Mutex
}

// New creates a Pipeline for cfg.
func New(cfg *config.Config, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Pipeline{
		cfg: cfg,
		emitter: emit.New(emit.Config{
			Compiler:  cfg.Compiler.Path,
			Flags:     cfg.Compiler.Flags,
			OutputDir: cfg.Output.Dir,
			Timeout:   cfg.Compiler.Timeout,
		}, opts.Runner),
		extractor: extract.New(extract.Options{
			OutputDir:   cfg.Output.Dir,
			WithCallees: cfg.Extract.WithCallees,
			CalleeDepth: cfg.Extract.CalleeDepth,
			Progress:    opts.Progress,
			Logger:      logger,
		}),
		logger:  logger,
		verbose: opts.Verbose,
	}
}

// EnsureOutputDir creates dir if it does not exist. An existing directory is
// left untouched, including any files already in it.
func EnsureOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("output path %s exists and is not a directory", dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat output directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Emit runs only the emit step. Failures are logged and returned.
func (p *Pipeline) Emit(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := EnsureOutputDir(p.cfg.Output.Dir); err != nil {
		return "", err
	}
	return p.emit(ctx)
}

// Run emits the dump and extracts the configured functions from it.
//
// A failed compiler run is logged and recorded in Result.EmitErr; extraction
// still runs and reports the missing dump per function. Only an unusable
// output directory or an extractor precondition failure returns an error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := EnsureOutputDir(p.cfg.Output.Dir); err != nil {
		return nil, err
	}

	result := &Result{
		Source:   p.cfg.Source.Path,
		DumpPath: emit.DumpPath(p.cfg.Output.Dir, p.cfg.Source.Path),
	}

	if _, err := p.emit(ctx); err != nil {
		result.EmitErr = err
	}

	report, err := p.extractor.Extract(result.DumpPath, p.cfg.Extract.Functions)
	if err != nil {
		return result, err
	}
	result.Report = report

	return result, nil
}

func (p *Pipeline) emit(ctx context.Context) (string, error) {
	dumpPath, err := p.emitter.Emit(ctx, p.cfg.Source.Path)
	if err == nil {
		return dumpPath, nil
	}

	var failure *emit.Failure
	if errors.As(err, &failure) {
		p.logger.Printf("Failed to emit sil for: %s (%v)", p.cfg.Source.Path, failure.Err)
		if p.verbose && len(failure.Output) > 0 {
			p.logger.Printf("Compiler output:\n%s", strings.TrimRight(string(failure.Output), "\n"))
		}
	} else {
		p.logger.Printf("Failed to emit sil for: %s (%v)", p.cfg.Source.Path, err)
	}
	return "", err
}
