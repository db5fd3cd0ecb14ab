// interfaces.go splits the store surface into capability interfaces so
// callers can depend on just the reads, writes, or maintenance they use.
//
// Deletion is soft throughout: rows are flagged, stay recoverable via
// Restore, and only Vacuum removes them for good.

package store

import (
	"context"
	"database/sql"
	"time"
)

// Reader covers document and metadata retrieval.
type Reader interface {
	// Latest returns the current version. Soft-deleted documents are
	// invisible unless includeDeleted is set.
	Latest(ctx context.Context, path string, includeDeleted bool) (*Document, error)

	// Version returns one historical version.
	Version(ctx context.Context, path string, version int) (*Document, error)

	// ByKey looks a version up by its eight-character key, or ErrNotFound.
	ByKey(ctx context.Context, key string) (*Document, error)

	// List returns documents under a prefix. deletedOnly restricts the
	// result to soft-deleted documents.
	List(ctx context.Context, prefix string, includeDeleted bool, deletedOnly bool) ([]Document, error)

	// ListPaths returns paths only, with no content loaded.
	ListPaths(ctx context.Context, prefix string) ([]string, error)

	// ListDeletedPaths returns the paths of soft-deleted documents.
	ListDeletedPaths(ctx context.Context, prefix string) ([]string, error)

	// ListMeta returns metadata rows for documents under a prefix.
	ListMeta(ctx context.Context, prefix string, includeDeleted bool) ([]DocumentMeta, error)

	// History returns a document's versions, newest first.
	History(ctx context.Context, path string, limit int, includeDeleted bool) ([]Document, error)

	// Exists reports presence without loading content.
	Exists(ctx context.Context, path string) (bool, error)

	// Count returns the number of documents under a prefix.
	Count(ctx context.Context, prefix string) (int64, error)

	// CountDeleted counts soft-deleted documents under a prefix.
	CountDeleted(ctx context.Context, prefix string) (int64, error)

	// Meta returns one document's metadata without its content.
	Meta(ctx context.Context, path string) (*DocumentMeta, error)

	// DeletedBefore returns paths of documents deleted before t.
	DeletedBefore(ctx context.Context, t time.Time, prefix string) ([]string, error)

	// VersionCount returns how many versions a document has.
	VersionCount(ctx context.Context, path string) (int, error)

	// ListAuthors returns every distinct author in the store.
	ListAuthors(ctx context.Context) ([]string, error)

	// Stats returns aggregate database statistics.
	Stats(ctx context.Context) (*Stats, error)
}

// Writer covers document mutation.
type Writer interface {
	// Write stores content as a new version; earlier versions remain.
	Write(ctx context.Context, path, content string, opts WriteOptions) error

	// Delete soft-deletes a document. Restore undoes it until Vacuum.
	Delete(ctx context.Context, path string, opts DeleteOptions) error

	// Restore returns a soft-deleted document to active status.
	Restore(ctx context.Context, path string, opts RestoreOptions) error

	// Move renames a document, history included.
	Move(ctx context.Context, src, dst string, opts MoveOptions) error

	// Copy duplicates a document as version 1 at the destination. The
	// copier is recorded separately from the original content author.
	Copy(ctx context.Context, from, to, copier string, opts CopyOptions) error
}

// Searcher covers full-text search.
type Searcher interface {
	// Search matches query against document paths and content.
	Search(ctx context.Context, query, prefix string, includeDeleted bool, deletedOnly bool) ([]Document, error)
}

// Batcher records and queries patch batch applications. Batch rows are
// append-only audit data: never versioned or soft-deleted, only purged
// when their document is vacuumed.
type Batcher interface {
	// RecordBatch persists the outcome of one batch application. The ID
	// field is assigned by the store and returned on the stored record.
	RecordBatch(ctx context.Context, b Batch) (*Batch, error)

	// ListBatches returns batch records for a document, newest first.
	// Pass empty path for all documents; limit 0 for no limit.
	ListBatches(ctx context.Context, path string, limit int) ([]Batch, error)
}

// Maintainer covers connection lifecycle and cleanup.
type Maintainer interface {
	Close() error

	// DB exposes the connection for extensions with their own tables.
	DB() *sql.DB

	// Checkpoint flushes the WAL into the main database file.
	Checkpoint(ctx context.Context) error

	// Vacuum permanently removes soft-deleted data.
	Vacuum(ctx context.Context, olderThan *time.Duration, path string) (int64, error)
}

// Store is the full persistence surface.
type Store interface {
	Reader
	Writer
	Searcher
	Batcher
	Maintainer
}
