package cli

import (
	"fmt"

	"github.com/mvp-joe/silbolt/internal/sil"
	"github.com/spf13/cobra"
)

// calleesCmd represents the callees command
var calleesCmd = &cobra.Command{
	Use:   "callees <dump.sil> <function>",
	Short: "Print the functions a SIL function calls, transitively",
	Long: `Callees follows function_ref instructions from the given function and prints
every function defined in the dump that it reaches, nearest first.
Functions referenced but not defined in the dump are skipped.

Examples:
  silbolt callees godbolt/Example.sil test_autodiff_gradient_apply
  silbolt callees godbolt/Example.sil test_autodiff_gradient_apply --depth 1`,
	Args: cobra.ExactArgs(2),
	RunE: runCallees,
}

func init() {
	rootCmd.AddCommand(calleesCmd)
}

func runCallees(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dump, err := readDumpArg(cfg, args[:1])
	if err != nil {
		return err
	}

	graph, err := sil.NewCallGraph(dump)
	if err != nil {
		return fmt.Errorf("failed to build call graph: %w", err)
	}

	callees, err := graph.Callees(args[1], cfg.Extract.CalleeDepth)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, callee := range callees {
		fmt.Fprintln(out, callee)
	}
	return nil
}
