// read.go holds the read-only queries of the SQLite store.
//
// Every query here resolves "the document at a path" to its highest version
// number. A path accumulates one row per version, including versions created
// by batch applies, so reads must always collapse the history down to the
// newest row. Soft deletion is a visibility filter on top of that: deleted
// documents keep their rows and stay readable when includeDeleted is set.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// docCols is the column list every full-document query selects, in the
// order scanDocument expects.
const docCols = `id, key, path, content, version, author, message, created_at, deleted_at`

// latestJoin builds the subquery that pins each path to its maximum version,
// with the prefix and deletion filters applied inside the subquery so that
// "latest" respects visibility. Returns the SQL fragment and its bind args.
// Shared by List and Search, which differ only in what they join it against.
func latestJoin(prefix string, includeDeleted, deletedOnly bool) (string, []any) {
	var b strings.Builder
	b.WriteString(`INNER JOIN (
		SELECT path, MAX(version) as max_version FROM documents`)

	var args []any
	var conds []string
	if prefix != "" {
		conds = append(conds, `path LIKE ?`)
		args = append(args, prefix+"%")
	}
	switch {
	case deletedOnly:
		conds = append(conds, `deleted_at IS NOT NULL`)
	case !includeDeleted:
		conds = append(conds, `deleted_at IS NULL`)
	}
	if len(conds) > 0 {
		b.WriteString(` WHERE ` + strings.Join(conds, ` AND `))
	}

	b.WriteString(` GROUP BY path
		) latest ON d.path = latest.path AND d.version = latest.max_version`)
	return b.String(), args
}

// Latest returns the newest version of the document at path. With
// includeDeleted false a soft-deleted document reads as ErrNotFound, which
// keeps deleted content out of every normal workflow until restore.
func (s *SQLiteStore) Latest(ctx context.Context, path string, includeDeleted bool) (*Document, error) {
	q := `SELECT ` + docCols + ` FROM documents WHERE path = ?`
	if !includeDeleted {
		q += ` AND deleted_at IS NULL`
	}
	q += ` ORDER BY version DESC LIMIT 1`

	return s.scanDocument(s.db.QueryRowContext(ctx, q, path))
}

// Version returns one exact historical version. No deleted_at filter:
// inspecting what a document said at version N is valid whether or not the
// document has since been deleted.
func (s *SQLiteStore) Version(ctx context.Context, path string, version int) (*Document, error) {
	q := `SELECT ` + docCols + ` FROM documents WHERE path = ? AND version = ?`
	return s.scanDocument(s.db.QueryRowContext(ctx, q, path, version))
}

// ByKey looks a version up by its 8-character key. Keys are per-version and
// survive renames, so they make stable handles for batch records and
// cross-references.
func (s *SQLiteStore) ByKey(ctx context.Context, key string) (*Document, error) {
	q := `SELECT ` + docCols + ` FROM documents WHERE key = ?`
	return s.scanDocument(s.db.QueryRowContext(ctx, q, key))
}

// List returns the latest version of every document under a prefix,
// ordered by path. Empty prefix lists everything.
func (s *SQLiteStore) List(ctx context.Context, prefix string, includeDeleted bool, deletedOnly bool) ([]Document, error) {
	join, args := latestJoin(prefix, includeDeleted, deletedOnly)

	var b strings.Builder
	b.WriteString(`SELECT d.id, d.key, d.path, d.content, d.version, d.author, d.message, d.created_at, d.deleted_at
		FROM documents d
		`)
	b.WriteString(join)

	// The subquery picked a max version per path without knowing whether
	// that particular row is deleted; re-filter the joined rows.
	switch {
	case deletedOnly:
		b.WriteString(` WHERE d.deleted_at IS NOT NULL`)
	case !includeDeleted:
		b.WriteString(` WHERE d.deleted_at IS NULL`)
	}
	b.WriteString(` ORDER BY d.path`)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	return s.scanDocuments(rows)
}

// ListPaths returns active document paths under a prefix, content left
// behind. Glob matching and tree listings only need the names.
func (s *SQLiteStore) ListPaths(ctx context.Context, prefix string) ([]string, error) {
	q := `SELECT DISTINCT path FROM documents WHERE deleted_at IS NULL`
	var args []any
	if prefix != "" {
		q += ` AND path LIKE ?`
		args = append(args, prefix+"%")
	}
	q += ` ORDER BY path`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// History returns a document's versions newest first. Callers join these
// against batch records to tell plain writes from applies. limit 0 means
// all versions.
func (s *SQLiteStore) History(ctx context.Context, path string, limit int, includeDeleted bool) ([]Document, error) {
	q := `SELECT ` + docCols + ` FROM documents WHERE path = ?`
	args := []any{path}

	if !includeDeleted {
		q += ` AND deleted_at IS NULL`
	}
	q += ` ORDER BY version DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list history for %s: %w", path, err)
	}
	defer rows.Close()

	return s.scanDocuments(rows)
}

// Count returns how many active documents live under a prefix. Counts
// distinct paths, not rows: a heavily-patched document with fifty versions
// is still one document.
func (s *SQLiteStore) Count(ctx context.Context, prefix string) (int64, error) {
	q := `SELECT COUNT(DISTINCT path) FROM documents WHERE deleted_at IS NULL`
	var args []any
	if prefix != "" {
		q += ` AND path LIKE ?`
		args = append(args, prefix+"%")
	}

	var count int64
	err := s.db.QueryRowContext(ctx, q, args...).Scan(&count)
	return count, err
}

// Meta returns the latest version's metadata with size computed in SQL, so
// a listing over large documents never ships content across the connection.
func (s *SQLiteStore) Meta(ctx context.Context, path string) (*DocumentMeta, error) {
	var m DocumentMeta
	var msg sql.NullString

	// deleted_at is filtered in the WHERE clause so it never needs scanning.
	err := s.db.QueryRowContext(ctx, `
		SELECT key, path, version, author, message, created_at, length(content)
		FROM documents
		WHERE path = ? AND deleted_at IS NULL
		ORDER BY version DESC LIMIT 1
	`, path).Scan(&m.Key, &m.Path, &m.Version, &m.Author, &msg, &m.CreatedAt, &m.Size)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get meta for %s: %w", path, err)
	}

	if msg.Valid {
		m.Message = msg.String
	}
	return &m, nil
}

// Exists reports whether an active document exists at path without reading
// it. Pre-flight checks (mv collision, copy target) call this.
func (s *SQLiteStore) Exists(ctx context.Context, path string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM documents WHERE path = ? AND deleted_at IS NULL LIMIT 1`, path).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", path, err)
	}
	return true, nil
}
