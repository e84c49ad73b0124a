package cli

import (
	"log"

	"github.com/mvp-joe/silbolt/internal/extract"
	"github.com/mvp-joe/silbolt/internal/pipeline"
	"github.com/spf13/cobra"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <dump.sil>",
	Short: "Extract functions from an existing SIL dump",
	Long: `Extract reads a SIL dump produced earlier (by silbolt emit, or swiftc directly)
and writes each selected function to <out>/<base>.<function>.sil.

The dump path must end in .sil. Functions default to the configured list and
can be overridden with -f, which accepts names and glob patterns.

Examples:
  silbolt extract godbolt/Example.sil
  silbolt extract godbolt/Example.sil -f 'AD__*' --out /tmp/sil`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := pipeline.EnsureOutputDir(cfg.Output.Dir); err != nil {
		return err
	}

	x := extract.New(extract.Options{
		OutputDir:   cfg.Output.Dir,
		WithCallees: cfg.Extract.WithCallees,
		CalleeDepth: cfg.Extract.CalleeDepth,
		Progress:    newCLIProgressReporter(cmd.OutOrStdout(), quiet),
		Logger:      log.Default(),
	})

	_, err = x.Extract(args[0], cfg.Extract.Functions)
	return err
}
