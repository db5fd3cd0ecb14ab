// schema.go owns the embedded SQL schema and the sentinel errors the store
// returns.
//
// Each table lives in its own file under sql/, executed in name order, so
// the numeric prefixes (001_documents, 002_documents_fts, 003_batches) are
// the migration order. Every file uses IF NOT EXISTS and is safe to rerun.
//
// Extensions that need their own tables embed schemas the same way and run
// them through ExecEmbedded from their Init:
//
//	//go:embed sql/*.sql
//	var extensionSchemas embed.FS
//
//	func (e *Extension) Init(ctx extension.Context) error {
//	    return store.ExecEmbedded(ctx.DB(), extensionSchemas, "sql")
//	}

package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed sql/*.sql
var schemas embed.FS

var (
	// ErrNotFound means no document or version matched. Callers branch on
	// this to tell missing data from real failures.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists guards create and move against clobbering an
	// existing document.
	ErrAlreadyExists = errors.New("document already exists")
	// ErrContentTooLarge rejects content over the configured size limit.
	ErrContentTooLarge = errors.New("document content too large")
)

// ExecEmbedded runs every .sql file in a directory of an embedded
// filesystem, in name order. Exported for extensions with their own
// embedded schemas.
func ExecEmbedded(db *sql.DB, fsys embed.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read schema directory: %w", err)
	}

	// ReadDir already sorts; keep the sort explicit since execution order
	// is the migration order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := dir + "/" + entry.Name()
		data, err := fsys.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if _, err := db.Exec(string(data)); err != nil {
			return fmt.Errorf("exec %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// execSchema applies the core schema.
func execSchema(db *sql.DB) error {
	return ExecEmbedded(db, schemas, "sql")
}
