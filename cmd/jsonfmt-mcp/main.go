package main

import (
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func newServer() *server.MCPServer {
	mcpServer := server.NewMCPServer(
		"jsonfmt-mcp",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	indentParam := mcp.WithNumber("indent",
		mcp.Description("Spaces per nesting level (default 4)"),
	)
	depthParam := mcp.WithNumber("depth",
		mcp.Description("Maximum nesting level; deeper input fails (default 32)"),
	)

	formatTool := mcp.NewTool("format",
		mcp.WithDescription("Re-indent JSON or JSON-like text without validating it"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to format"),
		),
		indentParam,
		depthParam,
	)
	mcpServer.AddTool(formatTool, formatHandler)

	checkTool := mcp.NewTool("check",
		mcp.WithDescription("Report whether text is already formatted and return a unified diff if not"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to check"),
		),
		mcp.WithString("name",
			mcp.Description("Name used in the diff header (default \"input\")"),
		),
		indentParam,
		depthParam,
	)
	mcpServer.AddTool(checkTool, checkHandler)

	versionTool := mcp.NewTool("version",
		mcp.WithDescription("Get version and build information for jsonfmt"),
	)
	mcpServer.AddTool(versionTool, versionHandler)

	return mcpServer
}

func main() {
	if err := server.ServeStdio(newServer()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
