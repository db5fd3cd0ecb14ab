// tools_documents.go holds the MCP document tools: list, read, write,
// delete, restore, revert, move, history. They are thin wrappers over the
// same service layer the CLI uses, returning structured JSON instead of
// rendered text, so the store behaves identically whichever surface an
// agent drives it through.
//
// Conventions shared by every tool here:
//
//   - Mutations require an author. Version history has to show which
//     agent made each change, so writes never default the author the way
//     read-only tools default to "mcp".
//
//   - Failures become MCP tool error results, not Go errors. The model
//     gets a message it can act on rather than a dead tool call.
//
//   - Anywhere a document is named, an 8-character key works in place of
//     the path.

package mcp

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/jpl-au/patchd/internal/log"
	"github.com/jpl-au/patchd/internal/ls"
	"github.com/jpl-au/patchd/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// logTarget records one path directly on the builder, or many as detail.
func logTarget(l *log.Builder, paths []string) {
	if len(paths) == 1 {
		l.Path(paths[0])
	} else {
		l.Detail("paths", paths)
	}
}

// listDocuments backs the patchd_list tool. It delegates to ls.Run with a
// discarded writer so sorting and deleted-filtering stay in one place; only
// the structured result is returned.
func (h *handlers) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	opts := ls.Options{
		Prefix:      getString(req, "prefix", ""),
		IncludeAll:  getBool(req, "include_deleted", false),
		DeletedOnly: getBool(req, "deleted_only", false),
		Reverse:     getBool(req, "reverse", false),
	}

	sortBy := getString(req, "sort", "")
	if sortBy != "" && sortBy != "name" && sortBy != "time" {
		return mcp.NewToolResultError(fmt.Sprintf("invalid sort field %q: must be 'name' or 'time'", sortBy)), nil
	}
	opts.Sort = ls.SortField(sortBy)

	var err error
	author := getString(req, "author", "mcp")
	l := log.Event("mcp:list", "list").Author(author).Path(opts.Prefix).Detail("sort", sortBy)
	defer func() { l.Write(err) }()

	lsResult, err := ls.Run(ctx, io.Discard, h.svc, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	l.Detail("count", lsResult.Count())

	return jsonResult(lsResult.ToJSON())
}

// readDocumentTool backs the patchd_read tool. It takes an array of paths
// so an agent can pull several documents in one round trip; version and
// include_deleted apply to all of them. One path returns a plain object,
// several return an array, matching the CLI's JSON convention.
func (h *handlers) readDocumentTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	paths := getStrings(req, "paths")
	if len(paths) == 0 {
		return mcp.NewToolResultError("paths is required"), nil
	}

	version := getInt(req, "version", 0)
	includeDeleted := getBool(req, "include_deleted", false)
	author := getString(req, "author", "mcp")

	l := log.Event("mcp:read", "read").Author(author)
	logTarget(l, paths)
	defer func() { l.Detail("count", len(paths)).Write(nil) }()

	var docs []store.DocJSON
	for _, p := range paths {
		var doc *store.Document
		var err error
		if version > 0 {
			doc, err = h.svc.Version(ctx, p, version)
		} else {
			doc, _, err = h.svc.Resolve(ctx, p, includeDeleted)
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		docs = append(docs, doc.ToJSON(true))
	}

	if len(docs) == 1 {
		return jsonResult(docs[0])
	}
	return jsonResult(docs)
}

// writeDocument backs the patchd_write tool: full-content create or
// replace. For incremental edits the patch tool is the better fit; this
// one exists for new documents and wholesale rewrites. The optional
// message lands in the version history.
func (h *handlers) writeDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	var err error
	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil
	}

	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content is required"), nil
	}

	author, err := req.RequireString("author")
	if err != nil {
		return mcp.NewToolResultError("author is required"), nil
	}

	message := getString(req, "message", "")

	l := log.Event("mcp:write", "write").Author(author).Path(p)
	defer func() { l.Write(err) }()

	err = h.svc.Write(ctx, p, content, author, message)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("wrote %s", p)), nil
}

// deleteDocument backs the patchd_delete tool. Deletion is soft and
// reversible through patchd_restore. A single argument that resolves as a
// key deletes only that version; a version parameter does the same
// explicitly and is rejected alongside multiple paths, so one call can
// never strip a specific version from many documents at once.
func (h *handlers) deleteDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	paths := getStrings(req, "paths")
	if len(paths) == 0 {
		return mcp.NewToolResultError("paths is required"), nil
	}

	author, err := req.RequireString("author")
	if err != nil {
		return mcp.NewToolResultError("author is required"), nil
	}

	version := getInt(req, "version", 0)

	if len(paths) > 1 && version > 0 {
		return mcp.NewToolResultError("version parameter cannot be used with multiple paths"), nil
	}

	l := log.Event("mcp:delete", "delete").Author(author)
	logTarget(l, paths)
	defer func() { l.Detail("count", len(paths)).Write(nil) }()

	if len(paths) == 1 {
		return h.deleteSingle(ctx, l, paths[0], version)
	}

	type deleteResult struct {
		Path    string `json:"path"`
		Deleted bool   `json:"deleted"`
	}
	var results []deleteResult

	for _, p := range paths {
		if err := h.svc.Delete(ctx, p); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("delete %s: %v", p, err)), nil
		}
		results = append(results, deleteResult{Path: p, Deleted: true})
	}

	return jsonResult(results)
}

// deleteSingle handles the one-path delete, where key resolution and
// version-specific deletion apply.
func (h *handlers) deleteSingle(ctx context.Context, l *log.Builder, inputPath string, version int) (*mcp.CallToolResult, error) {
	if version > 0 {
		l.Version(version)
		if err := h.svc.DeleteVersion(ctx, inputPath, version); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("deleted %s (version %d)", inputPath, version)), nil
	}

	doc, isKey, err := h.svc.Resolve(ctx, inputPath, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if isKey {
		// A key names one version; delete just it.
		l.Resolved(doc.Path).Version(doc.Version).Detail("key", inputPath)
		if err := h.svc.DeleteVersion(ctx, doc.Path, doc.Version); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("deleted %s (version %d, key %s)", doc.Path, doc.Version, inputPath)), nil
	}

	if inputPath != doc.Path {
		l.Resolved(doc.Path)
	}
	if err := h.svc.Delete(ctx, doc.Path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted %s", doc.Path)), nil
}

// restoreDocument backs the patchd_restore tool, undoing soft deletes.
// Paths resolve with includeDeleted set, since the whole point is finding
// documents normal lookups hide.
func (h *handlers) restoreDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	paths := getStrings(req, "paths")
	if len(paths) == 0 {
		return mcp.NewToolResultError("paths is required"), nil
	}

	author, err := req.RequireString("author")
	if err != nil {
		return mcp.NewToolResultError("author is required"), nil
	}

	l := log.Event("mcp:restore", "restore").Author(author)
	logTarget(l, paths)
	defer func() { l.Detail("count", len(paths)).Write(nil) }()

	if len(paths) == 1 {
		inputPath := paths[0]
		doc, isKey, err := h.svc.Resolve(ctx, inputPath, true)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%q: %v", inputPath, err)), nil
		}

		if isKey {
			l.Detail("key", inputPath)
		}
		if inputPath != doc.Path {
			l.Resolved(doc.Path)
		}

		if err := h.svc.Restore(ctx, doc.Path); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if isKey {
			return mcp.NewToolResultText(fmt.Sprintf("restored %s (from key %s)", doc.Path, inputPath)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("restored %s", doc.Path)), nil
	}

	type restoreResult struct {
		Path string `json:"path"`
		Key  string `json:"key,omitempty"`
	}
	var results []restoreResult

	for _, inputPath := range paths {
		doc, isKey, err := h.svc.Resolve(ctx, inputPath, true)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%q: %v", inputPath, err)), nil
		}

		if err := h.svc.Restore(ctx, doc.Path); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("restore %s: %v", doc.Path, err)), nil
		}

		result := restoreResult{Path: doc.Path}
		if isKey {
			result.Key = inputPath
		}
		results = append(results, result)
	}

	return jsonResult(results)
}

// revertDocument backs the patchd_revert tool. The old content is written
// forward as a new version, so history records the revert and a revert
// can itself be reverted. Target is either a key or a path plus version.
func (h *handlers) revertDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	author, err := req.RequireString("author")
	if err != nil {
		return mcp.NewToolResultError("author is required"), nil
	}

	p := getString(req, "path", "")
	version := getInt(req, "version", 0)
	key := getString(req, "key", "")
	message := getString(req, "message", "")

	if key == "" && p == "" {
		return mcp.NewToolResultError("either 'key' or 'path' is required"), nil
	}
	if key == "" && version == 0 {
		return mcp.NewToolResultError("either 'key' or 'version' is required"), nil
	}

	l := log.Event("mcp:revert", "revert").Author(author).Path(p).Version(version).Detail("key", key)
	defer func() { l.Write(nil) }()

	var doc *store.Document

	if key != "" {
		doc, err = h.svc.ByKey(ctx, key)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("key %q: %v", key, err)), nil
		}
	} else {
		doc, err = h.svc.Version(ctx, p, version)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("version %d of %q: %v", version, p, err)), nil
		}
	}

	if message == "" {
		if key != "" {
			message = fmt.Sprintf("Revert to %s", key)
		} else {
			message = fmt.Sprintf("Revert to v%d", version)
		}
	}

	if err := h.svc.Write(ctx, doc.Path, doc.Content, author, message); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("write reverted content: %v", err)), nil
	}

	newDoc, err := h.svc.Latest(ctx, doc.Path, false)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get new version: %v", err)), nil
	}

	l.Resolved(doc.Path).ResultVersion(newDoc.Version)

	type revertResult struct {
		Path       string `json:"path"`
		RevertedTo int    `json:"reverted_to"`
		NewVersion int    `json:"new_version"`
		Key        string `json:"key,omitempty"`
		Message    string `json:"message"`
	}

	return jsonResult(revertResult{
		Path:       doc.Path,
		RevertedTo: doc.Version,
		NewVersion: newDoc.Version,
		Key:        doc.Key,
		Message:    message,
	})
}

// moveDocument backs the patchd_move tool, a metadata-only rename that
// carries the whole version trail, batch records included, to the new
// path. Unix mv semantics: multiple sources, or a destination ending in
// "/", move each source under the destination keeping its base name; a
// single source with a plain destination is a rename.
func (h *handlers) moveDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	sources := getStrings(req, "sources")
	if len(sources) == 0 {
		return mcp.NewToolResultError("sources is required"), nil
	}

	dest, err := req.RequireString("dest")
	if err != nil {
		return mcp.NewToolResultError("dest is required"), nil
	}

	author, err := req.RequireString("author")
	if err != nil {
		return mcp.NewToolResultError("author is required"), nil
	}

	prefixMode := len(sources) > 1 || strings.HasSuffix(dest, "/")
	destPrefix := strings.TrimSuffix(dest, "/")

	l := log.Event("mcp:move", "move").Author(author)
	logTarget(l, sources)
	l.Detail("dest", dest)
	defer func() { l.Detail("count", len(sources)).Write(nil) }()

	type moveResult struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	var results []moveResult

	for _, src := range sources {
		target := dest
		if prefixMode {
			target = path.Join(destPrefix, path.Base(src))
		}

		if err := h.svc.Move(ctx, src, target); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("move %s: %v", src, err)), nil
		}
		results = append(results, moveResult{From: src, To: target})
	}

	if len(results) == 1 {
		return jsonResult(results[0])
	}
	return jsonResult(results)
}

// historyDocument backs the patchd_history tool: version metadata without
// content, newest first. limit caps long histories; include_deleted opens
// the trail of trashed documents for recovery decisions. Batch detail per
// version is available through the batches tool.
func (h *handlers) historyDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	var err error
	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil
	}

	limit := getInt(req, "limit", 0)
	includeDeleted := getBool(req, "include_deleted", false)
	author := getString(req, "author", "mcp")

	l := log.Event("mcp:history", "history").Author(author).Path(p)
	defer func() { l.Write(err) }()

	doc, _, err := h.svc.Resolve(ctx, p, includeDeleted)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resolvedPath := doc.Path

	docs, err := h.svc.History(ctx, resolvedPath, limit, includeDeleted)
	if err != nil {
		l.Resolved(resolvedPath)
		return mcp.NewToolResultError(err.Error()), nil
	}

	l.Resolved(resolvedPath).Detail("count", len(docs))

	historyResult := make([]store.DocJSON, len(docs))
	for i := range docs {
		historyResult[i] = docs[i].ToJSON(false)
	}

	return jsonResult(historyResult)
}
