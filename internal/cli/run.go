package cli

import (
	"context"
	"log"

	"github.com/mvp-joe/silbolt/internal/config"
	"github.com/mvp-joe/silbolt/internal/extract"
	"github.com/mvp-joe/silbolt/internal/pipeline"
	"github.com/spf13/cobra"
)

// runRun emits the dump and extracts the configured functions.
// Compile failures and missing functions are logged, not returned.
func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	p := newPipeline(cfg, newCLIProgressReporter(cmd.OutOrStdout(), quiet))
	_, err = p.Run(commandContext(cmd))
	return err
}

func newPipeline(cfg *config.Config, progress extract.ProgressReporter) *pipeline.Pipeline {
	return pipeline.New(cfg, pipeline.Options{
		Runner:   processRunner,
		Progress: progress,
		Logger:   log.Default(),
		Verbose:  verbose,
	})
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
