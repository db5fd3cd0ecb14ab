// tools_diff.go holds the patchd_diff MCP tool: what changed between two
// versions, or between two documents.

package mcp

import (
	"context"

	"github.com/jpl-au/patchd/internal/diff"
	"github.com/jpl-au/patchd/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) diffDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil //nolint:nilerr
	}

	opts := diff.Options{
		Path2:          getString(req, "path2", ""),
		Version1:       getInt(req, "version1", 0),
		Version2:       getInt(req, "version2", 0),
		IncludeDeleted: getBool(req, "include_deleted", false),
	}

	r, err := h.svc.Diff(ctx, path, opts)

	log.Event("mcp:diff", "diff").Author("mcp").Path(path).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]string{
		"old":  r.Old,
		"new":  r.New,
		"diff": r.Format(false),
	})
}
