package extract

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mvp-joe/silbolt/internal/emit"
	"github.com/mvp-joe/silbolt/internal/sil"
)

// ErrNotDumpFile indicates that the path handed to the extractor is not a .sil dump.
// This is a caller bug, not a runtime condition, and aborts the run.
var ErrNotDumpFile = errors.New("not a sil dump file")

// Options configures an Extractor.
type Options struct {
	OutputDir   string
	WithCallees bool             // also extract functions referenced by each extracted function
	CalleeDepth int              // callee traversal depth; 0 means unlimited
	Progress    ProgressReporter // nil means no progress reporting
	Logger      *log.Logger      // nil means the standard logger
}

// Extractor pulls function bodies out of a SIL dump into separate files.
type Extractor struct {
	opts Options
}

// New creates an Extractor.
func New(opts Options) *Extractor {
	if opts.Progress == nil {
		opts.Progress = NoOpProgressReporter{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Extractor{opts: opts}
}

// FragmentPath returns where the fragment for function is written:
// <outputDir>/<dump-base>.<function>.sil.
func FragmentPath(outputDir, dumpPath, function string) string {
	return filepath.Join(outputDir, emit.BaseName(dumpPath)+"."+function+emit.DumpExt)
}

// Extract writes one fragment per selected function of the dump at dumpPath.
//
// Selectors are function names or glob patterns (see sil.SelectFunctions).
// Each function is attempted independently: a missing function, unreadable
// dump or failed write is logged, recorded in the report and does not stop
// the remaining functions. Only a dumpPath without the .sil extension or an
// invalid glob selector returns an error.
func (x *Extractor) Extract(dumpPath string, selectors []string) (*Report, error) {
	if !strings.HasSuffix(dumpPath, emit.DumpExt) {
		return nil, fmt.Errorf("%w: %s", ErrNotDumpFile, dumpPath)
	}

	report := &Report{
		ID:      uuid.New().String(),
		Dump:    dumpPath,
		Started: time.Now(),
	}

	data, readErr := os.ReadFile(dumpPath)
	dump := string(data)

	names := selectors
	if readErr == nil {
		var err error
		names, err = sil.SelectFunctions(selectors, sil.ListFunctions(dump))
		if err != nil {
			return nil, err
		}
	}

	x.opts.Progress.OnExtractionStart(dumpPath, len(names))

	written := make(map[string]bool)
	for _, name := range names {
		var res Result
		if readErr != nil {
			res = Result{Function: name, Err: fmt.Errorf("failed to read dump: %w", readErr)}
		} else {
			res = x.extractOne(dump, dumpPath, name, "")
		}
		x.record(report, res)
		if res.OK() {
			written[name] = true
		}
	}

	if x.opts.WithCallees && readErr == nil && len(written) > 0 {
		x.extractCallees(report, dump, dumpPath, names, written)
	}

	report.Duration = time.Since(report.Started)
	x.opts.Progress.OnExtractionComplete(report)

	return report, nil
}

// extractCallees writes the callees of every successfully extracted function.
// A callee shared by several functions is written once, attributed to the first.
func (x *Extractor) extractCallees(report *Report, dump, dumpPath string, names []string, written map[string]bool) {
	graph, err := sil.NewCallGraph(dump)
	if err != nil {
		x.opts.Logger.Printf("Failed to build call graph for %s: %v", dumpPath, err)
		return
	}

	for _, name := range names {
		if !written[name] || !graph.Has(name) {
			continue
		}

		callees, err := graph.Callees(name, x.opts.CalleeDepth)
		if err != nil {
			x.opts.Logger.Printf("Failed to resolve callees of %s in file %s: %v", name, dumpPath, err)
			continue
		}

		for _, callee := range callees {
			if written[callee] {
				continue
			}
			res := x.extractOne(dump, dumpPath, callee, name)
			x.record(report, res)
			if res.OK() {
				written[callee] = true
			}
		}
	}
}

func (x *Extractor) extractOne(dump, dumpPath, name, calleeOf string) Result {
	fragment, err := sil.FindFunction(dump, name)
	if err != nil {
		return Result{Function: name, CalleeOf: calleeOf, Err: err}
	}

	path := FragmentPath(x.opts.OutputDir, dumpPath, name)
	if err := os.WriteFile(path, []byte(fragment), 0644); err != nil {
		return Result{Function: name, CalleeOf: calleeOf, Err: fmt.Errorf("failed to write fragment: %w", err)}
	}

	return Result{Function: name, CalleeOf: calleeOf, Path: path, Bytes: len(fragment)}
}

func (x *Extractor) record(report *Report, res Result) {
	if !res.OK() {
		x.opts.Logger.Printf("Failed to extract function %s in file %s: %v", res.Function, report.Dump, res.Err)
	}
	report.Results = append(report.Results, res)
	x.opts.Progress.OnFunctionExtracted(res)
}
