package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
)

// Server exposes the silbolt pipeline as MCP tools over stdio.
type Server struct {
	mcp *server.MCPServer
}

// NewServer creates a server with the sil_run, sil_list_functions and sil_function tools.
// defaultDump is the dump path used when a tool call omits one.
func NewServer(runner PipelineRunner, defaultDump, version string) *Server {
	mcpServer := server.NewMCPServer(
		"silbolt",
		version,
		server.WithToolCapabilities(true),
	)

	AddRunTool(mcpServer, runner)
	AddListFunctionsTool(mcpServer, defaultDump)
	AddFunctionTool(mcpServer, defaultDump)

	return &Server{mcp: mcpServer}
}

// MCP returns the underlying mcp-go server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
