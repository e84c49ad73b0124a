package cli

import (
	"fmt"
	"os"

	"github.com/mvp-joe/silbolt/internal/emit"
	"github.com/mvp-joe/silbolt/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server exposing the SIL pipeline as tools",
	Long: `Start a Model Context Protocol (MCP) server on stdio so coding assistants can
regenerate and read SIL without leaving the conversation.

Tools:
- sil_run: compile the configured source and extract the configured functions
- sil_list_functions: list the functions in a dump
- sil_function: return the SIL text of one function

Example:
  silbolt mcp`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// stdout carries the protocol; everything else goes to stderr.
	fmt.Fprintf(os.Stderr, "silbolt MCP Server\n")
	fmt.Fprintf(os.Stderr, "Source: %s\n", cfg.Source.Path)
	fmt.Fprintf(os.Stderr, "Output: %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "\n")

	p := newPipeline(cfg, nil)
	server := mcp.NewServer(p, emit.DumpPath(cfg.Output.Dir, cfg.Source.Path), Version)

	return server.Serve(commandContext(cmd))
}
