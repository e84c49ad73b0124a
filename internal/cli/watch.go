package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mvp-joe/silbolt/internal/watcher"
	"github.com/spf13/cobra"
)

var watchDebounceFlag time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run emit and extract whenever the source changes",
	Long: `Watch runs the full pipeline once, then again every time the configured source
file is saved, until interrupted with Ctrl+C.

Saves arriving within the debounce window are coalesced into one run.

Example:
  silbolt watch --debounce 1s`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounceFlag, "debounce", watcher.DefaultDebounce, "quiet period before re-running after a change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	out := cmd.OutOrStdout()
	p := newPipeline(cfg, newCLIProgressReporter(out, quiet))

	if _, err := p.Run(ctx); err != nil {
		return err
	}

	w, err := watcher.NewSourceWatcher([]string{cfg.Source.Path}, watchDebounceFlag)
	if err != nil {
		return fmt.Errorf("failed to watch source: %w", err)
	}
	defer w.Stop()

	err = w.Start(ctx, func(files []string) {
		log.Printf("Source changed: %s", strings.Join(files, ", "))
		if _, err := p.Run(ctx); err != nil {
			log.Printf("Run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	if !quiet {
		fmt.Fprintf(out, "Watching %s for changes (Ctrl+C to stop)\n", cfg.Source.Path)
	}

	<-ctx.Done()
	return nil
}
