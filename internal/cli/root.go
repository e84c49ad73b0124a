package cli

import (
	"fmt"
	"os"

	"github.com/mvp-joe/silbolt/internal/config"
	"github.com/mvp-joe/silbolt/internal/emit"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	cfgFile string
	verbose bool
	quiet   bool

	sourceFlag      string
	compilerFlag    string
	functionsFlag   []string
	outFlag         string
	withCalleesFlag bool
	depthFlag       int

	// processRunner runs the compiler; nil uses the real process runner.
	processRunner emit.Runner
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "silbolt",
	Short: "Dump optimized SIL for a Swift source and extract selected functions",
	Long: `silbolt compiles a Swift source file with 'swiftc -O -emit-sil', writes the
SIL dump to godbolt/<base>.sil, then extracts each selected function into
godbolt/<base>.<function>.sil for side-by-side inspection.

Running silbolt without a subcommand performs both steps. A failed compile or
a missing function is reported and the remaining work still runs.

Examples:
  # Default source and functions
  silbolt

  # Another source, functions selected by glob
  silbolt --source Sources/Bench/Other.swift -f 'test_*_gradient_apply'

  # Also extract the VJP and pullback each function calls
  silbolt --with-callees --depth 2`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "", "config file (default is ./.silbolt/config.yml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "print compiler output when the compile fails")
	flags.BoolVarP(&quiet, "quiet", "q", false, "suppress progress and summaries")

	addPipelineFlags(flags)
}

// addPipelineFlags registers the flags that override configuration values.
func addPipelineFlags(flags *pflag.FlagSet) {
	flags.StringVar(&sourceFlag, "source", "", "Swift source file to compile")
	flags.StringVar(&compilerFlag, "compiler", "", "compiler executable")
	flags.StringSliceVarP(&functionsFlag, "function", "f", nil, "function name or glob to extract (repeatable)")
	flags.StringVar(&outFlag, "out", "", "output directory for dumps and fragments")
	flags.BoolVar(&withCalleesFlag, "with-callees", false, "also extract functions referenced by each extracted function")
	flags.IntVar(&depthFlag, "depth", 0, "callee traversal depth (0 = unlimited)")
}

// loadConfig loads configuration for the working directory (or --config) and
// applies any flags set on the command line on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.NewFileLoader(cfgFile).Load()
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	applyFlagOverrides(cmd, cfg)

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyFlagOverrides copies explicitly set flags into cfg.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("source") {
		cfg.Source.Path = sourceFlag
	}
	if flags.Changed("compiler") {
		cfg.Compiler.Path = compilerFlag
	}
	if flags.Changed("function") {
		cfg.Extract.Functions = functionsFlag
	}
	if flags.Changed("out") {
		cfg.Output.Dir = outFlag
	}
	if flags.Changed("with-callees") {
		cfg.Extract.WithCallees = withCalleesFlag
	}
	if flags.Changed("depth") {
		cfg.Extract.CalleeDepth = depthFlag
	}
}
