package mcp

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mvp-joe/silbolt/internal/emit"
)

// marshalToolResponse marshals a response object to JSON and returns it as an MCP tool result.
func marshalToolResponse(response interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// readDump loads a SIL dump for a tool call. Errors are phrased for the caller
// since they are returned as tool results, not protocol errors.
func readDump(path string) (string, error) {
	if !strings.HasSuffix(path, emit.DumpExt) {
		return "", fmt.Errorf("dump must be a %s file: %s", emit.DumpExt, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("dump not found: %s (run sil_run first)", path)
		}
		return "", fmt.Errorf("failed to read dump: %w", err)
	}
	return string(data), nil
}
