// Package mcp exposes the store over the Model Context Protocol so LLM
// clients can read, write, and patch documents directly.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jpl-au/patchd/internal/document"
	"github.com/jpl-au/patchd/internal/repo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// ErrNotInitialised is the tool error returned while no store exists.
const ErrNotInitialised = "store not initialised - call patchd_init first"

// Serve runs the MCP server over stdio. A missing store is not fatal: the
// server comes up in uninitialised mode and patchd_init creates the store
// on demand, while other tools return ErrNotInitialised until then.
func Serve(db string) error {
	// stdout carries the JSON-RPC stream, so logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	h := &handlers{db: db}

	svc, err := document.New(db)
	if err != nil && !errors.Is(err, repo.ErrNotInitialised) {
		slog.Error("failed to open store", "error", err)
		return err
	}
	if err == nil {
		h.svc = svc
		defer svc.Close()
	} else {
		slog.Info("patchd not initialised, starting in uninitialised mode - call patchd_init to create store")
	}

	s := server.NewMCPServer(
		"patchd",
		Version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)

	registerResources(s, h)
	registerTools(s, h)

	slog.Info("patchd MCP server ready", "version", Version, "transport", "stdio")

	err = server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// handlers carries the shared state behind every tool and resource. svc is
// nil until the store is initialised.
type handlers struct {
	db  string
	svc *document.Service
}

// requireInit returns an error result while the store is uninitialised.
func (h *handlers) requireInit() *mcp.CallToolResult {
	if h.svc == nil {
		return mcp.NewToolResultError(ErrNotInitialised)
	}
	return nil
}

// registerResources adds URI-based resource access for direct document reading.
func registerResources(s *server.MCPServer, h *handlers) {
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"patchd://documents/{path}",
			"Document",
			mcp.WithTemplateDescription("Read document content by path"),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		h.readDocument,
	)

	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"patchd://documents/{path}/v/{version}",
			"Document Version",
			mcp.WithTemplateDescription("Read specific version of a document"),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		h.readDocumentVersion,
	)
}

// registerTools exposes patchd operations as MCP tools for LLM invocation.
func registerTools(s *server.MCPServer, h *handlers) {
	s.AddTool(
		mcp.NewTool("patchd_init",
			mcp.WithDescription("Initialise a new patchd document store. Call this first if other tools return 'store not initialised'."),
			mcp.WithBoolean("local", mcp.Description("If true, database is gitignored (not committed to version control)")),
		),
		h.initStore,
	)

	s.AddTool(
		mcp.NewTool("patchd_list",
			mcp.WithDescription("List documents in the store"),
			mcp.WithString("prefix", mcp.Description("Filter by path prefix")),
			mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted documents")),
			mcp.WithBoolean("deleted_only", mcp.Description("Show only deleted documents")),
		),
		h.listDocuments,
	)

	s.AddTool(
		mcp.NewTool("patchd_read",
			mcp.WithDescription("Read a document's content"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
			mcp.WithNumber("version", mcp.Description("Specific version to read (default: latest)")),
			mcp.WithBoolean("include_deleted", mcp.Description("Allow reading deleted documents")),
		),
		h.readDocumentTool,
	)

	s.AddTool(
		mcp.NewTool("patchd_write",
			mcp.WithDescription("Write content to a document (create or update)"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
			mcp.WithString("content", mcp.Required(), mcp.Description("Document content")),
			mcp.WithString("author", mcp.Required(), mcp.Description("Author attribution")),
			mcp.WithString("message", mcp.Description("Version message")),
		),
		h.writeDocument,
	)

	s.AddTool(
		mcp.NewTool("patchd_delete",
			mcp.WithDescription("Soft delete a document (recoverable via patchd_restore)"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
			mcp.WithNumber("version", mcp.Description("Delete only this specific version (default: all versions)")),
		),
		h.deleteDocument,
	)

	s.AddTool(
		mcp.NewTool("patchd_restore",
			mcp.WithDescription("Restore a soft-deleted document"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
		),
		h.restoreDocument,
	)

	s.AddTool(
		mcp.NewTool("patchd_revert",
			mcp.WithDescription("Revert a document to a previous version by writing the old content as a new version. History is preserved."),
			mcp.WithString("path", mcp.Description("Document path (with version)")),
			mcp.WithNumber("version", mcp.Description("Version to revert to")),
			mcp.WithString("key", mcp.Description("Version key (alternative to path+version)")),
			mcp.WithString("author", mcp.Required(), mcp.Description("Author attribution")),
			mcp.WithString("message", mcp.Description("Version message")),
		),
		h.revertDocument,
	)

	s.AddTool(
		mcp.NewTool("patchd_move",
			mcp.WithDescription("Move/rename a document"),
			mcp.WithString("from", mcp.Required(), mcp.Description("Source path")),
			mcp.WithString("to", mcp.Required(), mcp.Description("Destination path")),
		),
		h.moveDocument,
	)

	s.AddTool(
		mcp.NewTool("patchd_search",
			mcp.WithDescription("Full-text search across documents"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
			mcp.WithString("prefix", mcp.Description("Limit search to path prefix")),
			mcp.WithBoolean("include_deleted", mcp.Description("Include deleted documents")),
			mcp.WithBoolean("deleted_only", mcp.Description("Search only deleted documents")),
		),
		h.searchDocuments,
	)

	s.AddTool(
		mcp.NewTool("patchd_history",
			mcp.WithDescription("Get version history for a document"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
			mcp.WithNumber("limit", mcp.Description("Maximum versions to return")),
			mcp.WithBoolean("include_deleted", mcp.Description("Include deleted versions")),
		),
		h.historyDocument,
	)

	s.AddTool(
		mcp.NewTool("patchd_diff",
			mcp.WithDescription("Show differences between document versions or two documents"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
			mcp.WithString("path2", mcp.Description("Second document path (for comparing two documents)")),
			mcp.WithNumber("version1", mcp.Description("First version to compare")),
			mcp.WithNumber("version2", mcp.Description("Second version to compare")),
			mcp.WithBoolean("include_deleted", mcp.Description("Allow diffing deleted documents")),
		),
		h.diffDocuments,
	)

	s.AddTool(
		mcp.NewTool("patchd_apply",
			mcp.WithDescription("Apply a batch of search/replace edits to a document. Edits match loosely on whitespace and may be given in any order. Unapplied edits are reported, not fatal."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
			mcp.WithString("edits", mcp.Required(), mcp.Description(`JSON array of edits: [{"original": "...", "replacement": "..."}]. Empty original inserts at the top of the document.`)),
			mcp.WithString("author", mcp.Required(), mcp.Description("Author attribution")),
			mcp.WithString("message", mcp.Description("Version message")),
			mcp.WithNumber("passes", mcp.Description("Maximum engine passes (default from config)")),
			mcp.WithBoolean("strict", mcp.Description("Fail the whole batch if any edit cannot be applied")),
		),
		h.applyPatch,
	)

	s.AddTool(
		mcp.NewTool("patchd_preview",
			mcp.WithDescription("Preview a batch of edits without writing. Returns the outcome and a unified diff of the would-be change."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
			mcp.WithString("edits", mcp.Required(), mcp.Description(`JSON array of edits: [{"original": "...", "replacement": "..."}]`)),
			mcp.WithNumber("passes", mcp.Description("Maximum engine passes (default from config)")),
		),
		h.previewPatch,
	)

	s.AddTool(
		mcp.NewTool("patchd_batches",
			mcp.WithDescription("List patch batch records for a document (or all documents), newest first"),
			mcp.WithString("path", mcp.Description("Document path (empty for all documents)")),
			mcp.WithNumber("limit", mcp.Description("Maximum records to return")),
		),
		h.listBatches,
	)

	s.AddTool(
		mcp.NewTool("patchd_glob",
			mcp.WithDescription("List document paths matching a glob pattern"),
			mcp.WithString("pattern", mcp.Description("Glob pattern (supports *, **, ?)")),
		),
		h.globDocuments,
	)

	s.AddTool(
		mcp.NewTool("patchd_config_get",
			mcp.WithDescription("Get a configuration value"),
			mcp.WithString("key", mcp.Description("Config key (author.name, author.email, sync.files) or empty for all")),
		),
		h.configGet,
	)

	s.AddTool(
		mcp.NewTool("patchd_config_set",
			mcp.WithDescription("Set a configuration value"),
			mcp.WithString("key", mcp.Required(), mcp.Description("Config key (author.name, author.email, sync.files)")),
			mcp.WithString("value", mcp.Required(), mcp.Description("Value to set")),
		),
		h.configSet,
	)

	s.AddTool(
		mcp.NewTool("patchd_import",
			mcp.WithDescription("Import markdown files from filesystem into the store"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Filesystem path to import from")),
			mcp.WithString("prefix", mcp.Description("Target path prefix in store")),
			mcp.WithString("author", mcp.Required(), mcp.Description("Author attribution")),
			mcp.WithBoolean("flat", mcp.Description("Flatten directory structure")),
			mcp.WithBoolean("hidden", mcp.Description("Include hidden files/directories")),
			mcp.WithBoolean("dry_run", mcp.Description("Show what would be imported without importing")),
		),
		h.importFiles,
	)

	s.AddTool(
		mcp.NewTool("patchd_export",
			mcp.WithDescription("Export documents from store to filesystem"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Document path or prefix (use trailing / for prefix)")),
			mcp.WithString("dest", mcp.Required(), mcp.Description("Filesystem destination path")),
			mcp.WithNumber("version", mcp.Description("Export specific version (for single doc)")),
			mcp.WithBoolean("force", mcp.Description("Overwrite existing files")),
		),
		h.exportFiles,
	)

	s.AddTool(
		mcp.NewTool("patchd_sync",
			mcp.WithDescription("Sync filesystem changes back to database"),
			mcp.WithString("author", mcp.Required(), mcp.Description("Author attribution")),
			mcp.WithBoolean("dry_run", mcp.Description("Show what would be synced without syncing")),
			mcp.WithString("message", mcp.Description("Commit message for synced documents")),
		),
		h.syncFiles,
	)

	s.AddTool(
		mcp.NewTool("patchd_guide",
			mcp.WithDescription("Get help/guide content for patchd commands"),
			mcp.WithString("topic", mcp.Description("Guide topic (e.g., 'write', 'ls', 'apply') or empty for index")),
		),
		h.getGuide,
	)

	s.AddTool(
		mcp.NewTool("patchd_grep",
			mcp.WithDescription("Search documents using regex. For FTS5 full-text search, use patchd_search"),
			mcp.WithString("pattern", mcp.Required(), mcp.Description("Regex pattern (e.g., 'error|warn', 'TODO.*fix', '[0-9]{3}')")),
			mcp.WithString("path", mcp.Description("Limit search to path prefix")),
			mcp.WithBoolean("ignore_case", mcp.Description("Case insensitive search")),
			mcp.WithBoolean("paths_only", mcp.Description("Only return matching paths")),
			mcp.WithBoolean("include_deleted", mcp.Description("Include deleted documents")),
			mcp.WithBoolean("deleted_only", mcp.Description("Search only deleted documents")),
		),
		h.grepDocuments,
	)
}

// readDocument handles patchd://documents/{path} resource requests.
func (h *handlers) readDocument(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return h.readDocumentResource(ctx, req.Params.URI)
}

// readDocumentVersion handles patchd://documents/{path}/v/{version} resource requests.
func (h *handlers) readDocumentVersion(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return h.readDocumentResource(ctx, req.Params.URI)
}
