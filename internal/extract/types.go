package extract

import (
	"time"
)

// Result is the outcome of extracting one function from a dump.
type Result struct {
	Function string // function name as it appears in the trailer
	CalleeOf string // set when the function was pulled in as a callee of another
	Path     string // written fragment file; empty on failure
	Bytes    int    // fragment size in bytes
	Err      error  // nil on success
}

// OK reports whether the fragment was written.
func (r Result) OK() bool {
	return r.Err == nil
}

// Report aggregates every extraction attempted for one dump.
type Report struct {
	ID       string // unique per run, used to correlate log lines
	Dump     string
	Results  []Result
	Started  time.Time
	Duration time.Duration
}

// Succeeded returns the results whose fragments were written.
func (r *Report) Succeeded() []Result {
	var ok []Result
	for _, res := range r.Results {
		if res.OK() {
			ok = append(ok, res)
		}
	}
	return ok
}

// Failed returns the results that could not be extracted or written.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// ProgressReporter receives callbacks as functions are extracted.
type ProgressReporter interface {
	OnExtractionStart(dump string, total int)
	OnFunctionExtracted(result Result)
	OnExtractionComplete(report *Report)
}

// NoOpProgressReporter ignores all progress callbacks.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnExtractionStart(dump string, total int) {}
func (NoOpProgressReporter) OnFunctionExtracted(result Result)        {}
func (NoOpProgressReporter) OnExtractionComplete(report *Report)      {}
