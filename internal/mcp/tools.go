package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/silbolt/internal/extract"
	"github.com/mvp-joe/silbolt/internal/pipeline"
	"github.com/mvp-joe/silbolt/internal/sil"
)

// ToolHandler is the signature mcp-go expects for tool handlers.
type ToolHandler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// PipelineRunner is the subset of pipeline.Pipeline the tools need.
type PipelineRunner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// RunResponse is the JSON body returned by sil_run.
type RunResponse struct {
	RunID     string           `json:"run_id,omitempty"`
	Source    string           `json:"source"`
	Dump      string           `json:"dump"`
	EmitError string           `json:"emit_error,omitempty"`
	Extracted []FunctionResult `json:"extracted"`
	Failed    []FunctionResult `json:"failed"`
}

// FunctionResult describes one extraction attempt.
type FunctionResult struct {
	Function string `json:"function"`
	CalleeOf string `json:"callee_of,omitempty"`
	Path     string `json:"path,omitempty"`
	Bytes    int    `json:"bytes,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ListFunctionsRequest is the argument set of sil_list_functions.
type ListFunctionsRequest struct {
	Dump  string `json:"dump"`
	Match string `json:"match"`
}

// ListFunctionsResponse is the JSON body returned by sil_list_functions.
type ListFunctionsResponse struct {
	Dump      string   `json:"dump"`
	Functions []string `json:"functions"`
	Total     int      `json:"total"`
}

// FunctionRequest is the argument set of sil_function.
type FunctionRequest struct {
	Function string `json:"function"`
	Dump     string `json:"dump"`
}

// AddRunTool registers sil_run, which emits the dump and extracts the configured functions.
func AddRunTool(s *server.MCPServer, runner PipelineRunner) {
	tool := mcp.NewTool(
		"sil_run",
		mcp.WithDescription("Compile the configured Swift source to optimized SIL and extract the configured functions into separate .sil files. Returns the written files and any per-function failures."),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, createRunHandler(runner))
}

// AddListFunctionsTool registers sil_list_functions.
func AddListFunctionsTool(s *server.MCPServer, defaultDump string) {
	tool := mcp.NewTool(
		"sil_list_functions",
		mcp.WithDescription("List the SIL functions defined in a dump, in the order they appear."),
		mcp.WithString("dump",
			mcp.Description(fmt.Sprintf("Path to a .sil dump (default: %s)", defaultDump))),
		mcp.WithString("match",
			mcp.Description("Optional glob filter on function names (e.g., 'test_*_gradient_apply')")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, createListFunctionsHandler(defaultDump))
}

// AddFunctionTool registers sil_function, which returns the SIL text of one function.
func AddFunctionTool(s *server.MCPServer, defaultDump string) {
	tool := mcp.NewTool(
		"sil_function",
		mcp.WithDescription("Return the full SIL text of one function, from its 'sil' header through its end-of-function trailer."),
		mcp.WithString("function",
			mcp.Required(),
			mcp.Description("Function name as it appears in the end-of-function trailer")),
		mcp.WithString("dump",
			mcp.Description(fmt.Sprintf("Path to a .sil dump (default: %s)", defaultDump))),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, createFunctionHandler(defaultDump))
}

func createRunHandler(runner PipelineRunner) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := runner.Run(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return marshalToolResponse(newRunResponse(result))
	}
}

func newRunResponse(result *pipeline.Result) RunResponse {
	resp := RunResponse{
		Source:    result.Source,
		Dump:      result.DumpPath,
		Extracted: []FunctionResult{},
		Failed:    []FunctionResult{},
	}
	if result.EmitErr != nil {
		resp.EmitError = result.EmitErr.Error()
	}
	if result.Report == nil {
		return resp
	}

	resp.RunID = result.Report.ID
	for _, r := range result.Report.Results {
		fr := toFunctionResult(r)
		if r.OK() {
			resp.Extracted = append(resp.Extracted, fr)
		} else {
			resp.Failed = append(resp.Failed, fr)
		}
	}
	return resp
}

func toFunctionResult(r extract.Result) FunctionResult {
	fr := FunctionResult{
		Function: r.Function,
		CalleeOf: r.CalleeOf,
		Path:     r.Path,
		Bytes:    r.Bytes,
	}
	if r.Err != nil {
		fr.Error = r.Err.Error()
	}
	return fr
}

func createListFunctionsHandler(defaultDump string) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var req ListFunctionsRequest
		if err := bindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}
		if req.Dump == "" {
			req.Dump = defaultDump
		}

		dump, err := readDump(req.Dump)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		functions := sil.ListFunctions(dump)
		if req.Match != "" {
			functions, err = sil.MatchFunctions(req.Match, functions)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}
		if functions == nil {
			functions = []string{}
		}

		return marshalToolResponse(ListFunctionsResponse{
			Dump:      req.Dump,
			Functions: functions,
			Total:     len(functions),
		})
	}
}

func createFunctionHandler(defaultDump string) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var req FunctionRequest
		if err := bindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}
		if req.Function == "" {
			return mcp.NewToolResultError("function parameter is required"), nil
		}
		if req.Dump == "" {
			req.Dump = defaultDump
		}

		dump, err := readDump(req.Dump)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body, err := sil.FindFunction(dump, req.Function)
		if err != nil {
			if errors.Is(err, sil.ErrFunctionNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("function %s not found in %s", req.Function, req.Dump)), nil
			}
			return nil, err
		}
		return mcp.NewToolResultText(body), nil
	}
}
