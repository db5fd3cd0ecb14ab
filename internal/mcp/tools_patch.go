// tools_patch.go implements MCP tools for batch patch operations.
//
// Separated from tools_documents.go because patching has a different shape:
// the LLM sends a JSON batch of edits rather than scalar parameters, and the
// response is a structured outcome (applied/skipped/unapplied counts, hint)
// rather than a simple confirmation.
//
// Design: Unapplied edits are reported in the outcome, not raised as tool
// errors. An LLM that sees {"unapplied": 2, "hint": ...} can correct its
// batch and retry, whereas a hard error would discard the partial progress
// the engine already made.

package mcp

import (
	"context"
	"strings"

	"github.com/jpl-au/patchd/internal/log"
	"github.com/jpl-au/patchd/internal/patch"
	"github.com/jpl-au/patchd/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// applyPatch handles patchd_apply tool calls.
//
// The edits parameter is a JSON array string rather than a structured MCP
// parameter because batches nest arbitrarily quoted text. Passing the array
// as a string sidesteps double-encoding issues that LLMs frequently hit
// when embedding code snippets in structured tool arguments.
func (h *handlers) applyPatch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	var err error
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil
	}

	editsJSON, err := req.RequireString("edits")
	if err != nil {
		return mcp.NewToolResultError("edits is required"), nil
	}

	author, err := req.RequireString("author")
	if err != nil {
		return mcp.NewToolResultError("author is required"), nil
	}

	edits, err := patch.ParseBatch(strings.NewReader(editsJSON))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := patch.Options{
		Edits:     edits,
		MaxPasses: getInt(req, "passes", 0),
		Strict:    getBool(req, "strict", false),
		Author:    author,
		Message:   getString(req, "message", ""),
	}

	l := log.Event("mcp:apply", "apply").Author(author).Path(path).Detail("edits", len(edits))
	defer func() { l.Write(err) }()

	out, err := h.svc.ApplyBatch(ctx, path, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	l.Resolved(out.Path).Detail("applied", out.Applied).Detail("unapplied", out.Unapplied)
	if out.Version > 0 {
		l.ResultVersion(out.Version)
	}

	return jsonResult(out)
}

// previewPatch handles patchd_preview tool calls.
//
// Runs the same engine as applyPatch but writes nothing, returning the
// outcome plus a unified diff. LLMs use this to verify a batch lands where
// intended before committing a new version.
func (h *handlers) previewPatch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil
	}

	editsJSON, err := req.RequireString("edits")
	if err != nil {
		return mcp.NewToolResultError("edits is required"), nil
	}

	edits, err := patch.ParseBatch(strings.NewReader(editsJSON))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := patch.Options{
		Edits:     edits,
		MaxPasses: getInt(req, "passes", 0),
	}

	out, rendered, err := h.svc.PreviewBatch(ctx, path, opts)

	log.Event("mcp:preview", "preview").Author("mcp").Path(path).Detail("edits", len(edits)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	type previewResult struct {
		patch.Outcome
		Diff string `json:"diff,omitempty"`
	}
	return jsonResult(previewResult{Outcome: out, Diff: rendered})
}

// listBatches handles patchd_batches tool calls.
func (h *handlers) listBatches(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	path := getString(req, "path", "")
	limit := getInt(req, "limit", 0)

	batches, err := h.svc.Batches(ctx, path, limit)

	log.Event("mcp:batches", "list").Author("mcp").Path(path).Detail("count", len(batches)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := make([]store.BatchJSON, len(batches))
	for i := range batches {
		result[i] = batches[i].ToJSON()
	}
	return jsonResult(result)
}
