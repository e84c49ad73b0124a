package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/mvp-joe/silbolt/internal/config"
	"github.com/mvp-joe/silbolt/internal/emit"
	"github.com/mvp-joe/silbolt/internal/extract"
	"github.com/mvp-joe/silbolt/internal/sil"
	"github.com/spf13/cobra"
)

var listMatchFlag string

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [dump.sil]",
	Short: "List the functions defined in a SIL dump",
	Long: `List prints the name of every function in a SIL dump, one per line, in the
order they appear. Without an argument the dump of the configured source is used.

Examples:
  silbolt list
  silbolt list godbolt/Example.sil --match 'AD__*'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listMatchFlag, "match", "", "only list functions matching this glob")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dump, err := readDumpArg(cfg, args)
	if err != nil {
		return err
	}

	names := sil.ListFunctions(dump)
	if listMatchFlag != "" {
		names, err = sil.MatchFunctions(listMatchFlag, names)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}

// readDumpArg reads the dump named by args[0], or the configured source's dump
// when args is empty.
func readDumpArg(cfg *config.Config, args []string) (string, error) {
	path := emit.DumpPath(cfg.Output.Dir, cfg.Source.Path)
	if len(args) > 0 {
		path = args[0]
	}

	if !strings.HasSuffix(path, emit.DumpExt) {
		return "", fmt.Errorf("%w: %s", extract.ErrNotDumpFile, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read dump: %w", err)
	}
	return string(data), nil
}
