package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/mvp-joe/silbolt/internal/extract"
	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter implements extract.ProgressReporter with a progress bar
// and a closing summary.
type CLIProgressReporter struct {
	out   io.Writer
	quiet bool
	bar   *progressbar.ProgressBar
}

// newCLIProgressReporter creates a reporter writing to out, typically the command's stdout.
func newCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		out:   out,
		quiet: quiet,
	}
}

func (c *CLIProgressReporter) OnExtractionStart(dump string, total int) {
	if c.quiet || total == 0 {
		return
	}
	c.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Extracting "+filepath.Base(dump)),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

// OnFunctionExtracted advances the bar for requested functions only. Callees
// are not part of the announced total.
func (c *CLIProgressReporter) OnFunctionExtracted(result extract.Result) {
	if c.quiet || result.CalleeOf != "" {
		return
	}
	if c.bar != nil {
		c.bar.Add(1)
	}
}

func (c *CLIProgressReporter) OnExtractionComplete(report *extract.Report) {
	if c.quiet {
		return
	}
	if c.bar != nil {
		c.bar.Finish()
		c.bar = nil
	}
	printReport(c.out, report)
}

// printReport writes the per-run summary: one line per written fragment, then
// a count of failures (already logged individually by the extractor).
func printReport(out io.Writer, report *extract.Report) {
	succeeded := report.Succeeded()
	failed := report.Failed()

	fmt.Fprintln(out)
	fmt.Fprintf(out, "✓ Extraction complete: %d of %d functions in %.1fs (run %s)\n",
		len(succeeded), len(report.Results), report.Duration.Seconds(), report.ID)
	for _, res := range succeeded {
		if res.CalleeOf != "" {
			fmt.Fprintf(out, "  %s (%s bytes, called from %s)\n", res.Path, formatNumber(res.Bytes), res.CalleeOf)
			continue
		}
		fmt.Fprintf(out, "  %s (%s bytes)\n", res.Path, formatNumber(res.Bytes))
	}
	if len(failed) > 0 {
		fmt.Fprintf(out, "✗ %d failed:", len(failed))
		for _, res := range failed {
			fmt.Fprintf(out, " %s", res.Function)
		}
		fmt.Fprintln(out)
	}
}

func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
