package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/amterp/jsonfmt"
	"github.com/amterp/jsonfmt/pkg/version"
)

func formatHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	f, err := formatterFromArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	output, stats, err := f.Format(text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Format failed: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"output":     output,
		"maxNesting": stats.MaxNesting,
		"lines":      stats.Lines,
	})
}

func checkHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	f, err := formatterFromArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	name := "input"
	if args, ok := request.Params.Arguments.(map[string]any); ok {
		if s, ok := args["name"].(string); ok && s != "" {
			name = s
		}
	}

	result, err := jsonfmt.Check(name, text, f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Check failed: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"formatted": result.Formatted,
		"diff":      result.Diff,
	})
}

func versionHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bi := version.GetVersion()
	if bi == nil {
		return mcp.NewToolResultError("failed to get build information"), nil
	}

	return jsonResult(map[string]any{
		"version":   version.String("jsonfmt"),
		"goVersion": bi.GoVersion,
		"path":      bi.Path,
	})
}

// formatterFromArgs builds a Formatter from the optional indent and depth
// arguments. JSON numbers arrive as float64.
func formatterFromArgs(request mcp.CallToolRequest) (*jsonfmt.Formatter, error) {
	cfg := jsonfmt.DefaultConfig()

	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return jsonfmt.NewFormatter(cfg), nil
	}

	for key, dst := range map[string]*int{"indent": &cfg.IndentWidth, "depth": &cfg.MaxDepth} {
		v, found := args[key]
		if !found {
			continue
		}

		n, ok := v.(float64)
		if !ok || n != float64(int(n)) {
			return nil, fmt.Errorf("%s must be an integer, got %v", key, v)
		}

		*dst = int(n)
	}

	if cfg.MaxDepth == 0 {
		return nil, fmt.Errorf("depth must be positive: %w", jsonfmt.ErrInvalidConfig)
	}

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	return jsonfmt.NewFormatter(cfg), nil
}

// jsonResult returns v as indented JSON text content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	resultJSON, err := jsonfmt.MarshalWithFormatter(v, jsonfmt.NewFormatter(jsonfmt.Config{IndentWidth: 2}))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(string(resultJSON)), nil
}
