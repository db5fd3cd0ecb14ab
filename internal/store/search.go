// search.go runs full-text queries over the FTS5 index.
//
// FTS5 matches tokens, not paths, so it lives apart from read.go: the query
// string carries its own syntax (AND, OR, prefix*, "phrase") and is passed
// straight through to MATCH. The index covers soft-deleted rows too, which
// is what lets the trash be searched; visibility is decided per query via
// the same latest-version subquery the listing reads use.

package store

import (
	"context"
)

// Search returns the latest version of each document whose content matches
// the FTS5 query, scoped to a path prefix when one is given.
func (s *SQLiteStore) Search(ctx context.Context, query string, prefix string, includeDeleted bool, deletedOnly bool) ([]Document, error) {
	join, args := latestJoin(prefix, includeDeleted, deletedOnly)

	q := `SELECT d.id, d.key, d.path, d.content, d.version, d.author, d.message, d.created_at, d.deleted_at
		FROM documents_fts
		JOIN documents d ON documents_fts.rowid = d.id
		` + join + `
		WHERE documents_fts MATCH ?`
	args = append(args, query)

	// No deleted_at re-filter: the subquery already chose the latest
	// version under the requested visibility, and the join admits only
	// those exact rows.
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.scanDocuments(rows)
}
