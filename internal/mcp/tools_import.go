// tools_import.go holds the patchd_import MCP tool, which brings external
// markdown files into the store as version 1 documents. dry_run previews
// the import without writing anything.

package mcp

import (
	"bytes"
	"context"

	"github.com/jpl-au/patchd/internal/importer"
	"github.com/jpl-au/patchd/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) importFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil //nolint:nilerr
	}

	author, err := req.RequireString("author")
	if err != nil {
		return mcp.NewToolResultError("author is required"), nil //nolint:nilerr
	}

	opts := importer.Options{
		Prefix: getString(req, "prefix", ""),
		Flat:   getBool(req, "flat", false),
		Hidden: getBool(req, "hidden", false),
		DryRun: getBool(req, "dry_run", false),
		Author: author,
	}

	var buf bytes.Buffer
	result, err := importer.Run(ctx, &buf, h.svc, path, opts)

	log.Event("mcp:import", "import").Author(author).Detail("source", path).Detail("count", result.Imported).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"imported": result.Imported,
		"paths":    result.Paths,
		"dry_run":  opts.DryRun,
	})
}
