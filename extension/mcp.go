// mcp.go holds the types an extension uses to contribute MCP tools. Kept
// apart from extension.go because plenty of extensions are CLI-only.

package extension

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// MCPTool bundles a tool definition with the handler that serves it, so an
// extension registers each tool as one complete unit.
type MCPTool struct {
	Tool    mcp.Tool
	Handler MCPHandler
}

// MCPHandler serves one MCP tool call. It gets the Go context for
// cancellation and the extension Context for service and database access.
type MCPHandler func(ctx context.Context, extCtx Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
