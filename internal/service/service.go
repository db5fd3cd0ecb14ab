// Package service defines the interface commands and extensions program
// against. Concrete implementations live in internal/document.
package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/jpl-au/patchd/internal/diff"
	"github.com/jpl-au/patchd/internal/patch"
	"github.com/jpl-au/patchd/internal/store"
)

// Service is the full set of document operations. Obtain one via
// document.New and defer Close:
//
//	svc, err := document.New("")
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//	doc, err := svc.Latest(ctx, "docs/readme", false)
type Service interface {
	// Close releases database resources.
	Close() error

	// Latest returns the newest version of a document. Deleted documents
	// yield store.ErrNotFound unless includeDeleted is set.
	Latest(ctx context.Context, path string, includeDeleted bool) (*store.Document, error)

	// Version returns one specific version, or store.ErrNotFound.
	Version(ctx context.Context, path string, version int) (*store.Document, error)

	// ByKey retrieves a document version by its eight-character key.
	ByKey(ctx context.Context, key string) (*store.Document, error)

	// Resolve accepts either a path or a key. Eight-character inputs are
	// looked up both ways concurrently (WAL mode permits parallel reads);
	// anything else is treated as a path, since keys are always eight
	// characters.
	//
	// A key names one exact version; a path names the current content.
	// That distinction matters to callers: revert targets a key's exact
	// version, and rm deletes the whole document only for paths. The
	// returned bool is true when the input matched as a key, so such
	// commands can branch on it.
	//
	// Use Resolve wherever the input comes from a user or an LLM (cat,
	// history, apply, the MCP tools). Internal code operating on known
	// paths should call Latest directly.
	Resolve(ctx context.Context, pathOrKey string, includeDeleted bool) (*store.Document, bool, error)

	// List returns documents under a path prefix; "" means all. Set
	// deletedOnly to list only soft-deleted documents.
	List(ctx context.Context, prefix string, includeDeleted, deletedOnly bool) ([]store.Document, error)

	// Write stores content as a new version, creating the document at
	// version 1 if needed. Fires a write event; with sync.files enabled
	// the sync extension mirrors the content to .patchd/<path>.md.
	Write(ctx context.Context, path, content, author, message string) error

	// Delete soft-deletes a document. Restore undoes it.
	Delete(ctx context.Context, path string) error

	// DeleteVersion soft-deletes one version, leaving the rest readable.
	DeleteVersion(ctx context.Context, path string, version int) error

	// Restore un-deletes a soft-deleted document. Returns
	// store.ErrNotFound when the document is absent or not deleted.
	Restore(ctx context.Context, path string) error

	// Move renames a document. Fails with store.ErrAlreadyExists when the
	// destination is taken.
	Move(ctx context.Context, from, to string) error

	// Search runs an FTS5 full-text query: "word1 word2" (AND),
	// "word1 OR word2", "word*" (prefix), "\"exact phrase\"".
	Search(ctx context.Context, query, prefix string, includeDeleted, deletedOnly bool) ([]store.Document, error)

	// History returns a document's versions, newest first. Limit 0 means
	// all of them.
	History(ctx context.Context, path string, limit int, includeDeleted bool) ([]store.Document, error)

	// Glob returns paths matching a pattern with *, **, and ? wildcards.
	Glob(ctx context.Context, pattern string) ([]string, error)

	// ApplyBatch runs a patch batch against a document, writes a new
	// version when the content changed, and records the outcome in the
	// batches table. Unapplied edits are reported in the outcome rather
	// than failing the call, unless opts.Strict is set.
	ApplyBatch(ctx context.Context, path string, opts patch.Options) (patch.Outcome, error)

	// PreviewBatch runs a patch batch through the engine without writing
	// and returns the outcome plus a formatted diff of the would-be change.
	PreviewBatch(ctx context.Context, path string, opts patch.Options) (patch.Outcome, string, error)

	// Batches returns batch application records, newest first. Empty path
	// covers all documents; limit 0 returns everything.
	Batches(ctx context.Context, path string, limit int) ([]store.Batch, error)

	// Diff compares versions or a document against a filesystem file.
	// diff.Options selects the comparison mode.
	Diff(ctx context.Context, path string, opts diff.Options) (diff.Result, error)

	// Vacuum permanently removes soft-deleted documents, optionally only
	// those deleted longer ago than olderThan. Returns how many went.
	Vacuum(ctx context.Context, olderThan *time.Duration, prefix string) (int64, error)

	// FilesDir returns the .patchd directory path.
	FilesDir() string

	// SyncEnabled reports whether mutations should be mirrored to the
	// files directory (the sync.files setting).
	SyncEnabled() bool

	// Exists reports whether a document exists, without fetching content.
	Exists(ctx context.Context, path string) (bool, error)

	// Copy duplicates a document to a new path. The copy restarts at
	// version 1 with message "Copied from <source>" attributed to copier.
	Copy(ctx context.Context, from, to, copier string) error

	// Count returns how many documents match a prefix; "" counts all.
	Count(ctx context.Context, prefix string) (int64, error)

	// Meta returns metadata without loading the content column.
	Meta(ctx context.Context, path string) (*store.DocumentMeta, error)

	// DB exposes the SQLite connection for extensions that keep their own
	// tables. Never close it directly; Service.Close owns it.
	DB() *sql.DB

	// Tx runs fn inside a transaction: a nil return commits, an error
	// rolls back.
	//
	//	err := svc.Tx(ctx, func(tx *sql.Tx) error {
	//	    _, err := tx.Exec("INSERT INTO reviews (path) VALUES (?)", "docs/readme")
	//	    return err
	//	})
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error

	// ListPaths returns document paths under a prefix without loading
	// content.
	ListPaths(ctx context.Context, prefix string) ([]string, error)

	// ListDeletedPaths returns the paths of soft-deleted documents.
	ListDeletedPaths(ctx context.Context, prefix string) ([]string, error)

	// ListMeta returns metadata rows for every document under a prefix.
	ListMeta(ctx context.Context, prefix string, includeDeleted bool) ([]store.DocumentMeta, error)

	// CountDeleted counts soft-deleted documents under a prefix.
	CountDeleted(ctx context.Context, prefix string) (int64, error)

	// DeletedBefore returns paths of documents deleted before t.
	DeletedBefore(ctx context.Context, t time.Time, prefix string) ([]string, error)

	// VersionCount returns how many versions a document has.
	VersionCount(ctx context.Context, path string) (int, error)

	// ListAuthors returns every distinct author in the store.
	ListAuthors(ctx context.Context) ([]string, error)

	// Stats returns aggregate database statistics.
	Stats(ctx context.Context) (*store.Stats, error)

	// Checkpoint flushes the WAL into the main database file, removing
	// the -wal and -shm files. Run it before backing up or shipping the
	// database.
	Checkpoint(ctx context.Context) error
}
