package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// emitCmd represents the emit command
var emitCmd = &cobra.Command{
	Use:   "emit",
	Short: "Compile the source and write the SIL dump only",
	Long: `Emit runs the compiler on the configured source and writes its output to
<out>/<base>.sil without extracting any functions.

Unlike the default command, a failed compile makes emit exit non-zero since
there is nothing else to do.

Example:
  silbolt emit --source Sources/AutoDiffBenchmark/Example.swift`,
	Args: cobra.NoArgs,
	RunE: runEmit,
}

func init() {
	rootCmd.AddCommand(emitCmd)
}

func runEmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dumpPath, err := newPipeline(cfg, nil).Emit(commandContext(cmd))
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", dumpPath)
	}
	return nil
}
