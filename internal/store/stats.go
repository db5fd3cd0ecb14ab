// stats.go groups the aggregate and metadata-only queries: counts,
// distinct lists, and the dashboard numbers behind db stats. None of them
// pull document content across the connection; sizes come from SQL
// length() and everything else is COUNT or MIN/MAX.

package store

import (
	"context"
	"database/sql"
	"time"
)

// scanPaths drains a single-column path query.
func scanPaths(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// ListDeletedPaths returns the paths sitting in the trash under prefix.
func (s *SQLiteStore) ListDeletedPaths(ctx context.Context, prefix string) ([]string, error) {
	q := `SELECT DISTINCT path FROM documents WHERE deleted_at IS NOT NULL`
	var args []any

	if prefix != "" {
		q += ` AND path LIKE ?`
		args = append(args, prefix+"%")
	}
	q += ` ORDER BY path`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return scanPaths(rows)
}

// ListMeta returns per-document metadata under prefix, latest version of
// each. The long listing is built entirely from this query.
func (s *SQLiteStore) ListMeta(ctx context.Context, prefix string, includeDeleted bool) ([]DocumentMeta, error) {
	join, args := latestJoin(prefix, includeDeleted, false)

	q := `SELECT d.key, d.path, d.version, d.author, d.message, d.created_at, d.deleted_at, length(d.content)
		FROM documents d
		` + join
	if !includeDeleted {
		q += ` WHERE d.deleted_at IS NULL`
	}
	q += ` ORDER BY d.path`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metas []DocumentMeta
	for rows.Next() {
		var m DocumentMeta
		var msg sql.NullString
		if err := rows.Scan(&m.Key, &m.Path, &m.Version, &m.Author, &msg, &m.CreatedAt, &m.DeletedAt, &m.Size); err != nil {
			return nil, err
		}
		if msg.Valid {
			m.Message = msg.String
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// CountDeleted counts trashed documents under prefix, for vacuum preview.
func (s *SQLiteStore) CountDeleted(ctx context.Context, prefix string) (int64, error) {
	q := `SELECT COUNT(DISTINCT path) FROM documents WHERE deleted_at IS NOT NULL`
	var args []any

	if prefix != "" {
		q += ` AND path LIKE ?`
		args = append(args, prefix+"%")
	}

	var count int64
	err := s.db.QueryRowContext(ctx, q, args...).Scan(&count)
	return count, err
}

// DeletedBefore returns trashed paths whose deletion predates t. Vacuum
// with an age cutoff deletes exactly this set.
func (s *SQLiteStore) DeletedBefore(ctx context.Context, t time.Time, prefix string) ([]string, error) {
	q := `SELECT DISTINCT path FROM documents WHERE deleted_at IS NOT NULL AND deleted_at < ?`
	args := []any{t.Unix()}

	if prefix != "" {
		q += ` AND path LIKE ?`
		args = append(args, prefix+"%")
	}
	q += ` ORDER BY path`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return scanPaths(rows)
}

// VersionCount returns the number of versions stored for path.
func (s *SQLiteStore) VersionCount(ctx context.Context, path string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE path = ?`, path).Scan(&count)
	return count, err
}

// ListAuthors returns every distinct author in the store.
func (s *SQLiteStore) ListAuthors(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT author FROM documents ORDER BY author`)
	if err != nil {
		return nil, err
	}
	return scanPaths(rows)
}

// Stats collects the aggregate figures shown by db stats.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	var st Stats

	scalars := []struct {
		query string
		dest  []any
	}{
		{`SELECT COUNT(DISTINCT path) FROM documents WHERE deleted_at IS NULL`, []any{&st.Documents}},
		{`SELECT COUNT(DISTINCT path) FROM documents WHERE deleted_at IS NOT NULL`, []any{&st.DeletedDocs}},
		{`SELECT COUNT(*) FROM documents`, []any{&st.TotalVersions}},
		// A persistently non-zero unapplied sum means callers keep
		// submitting batches the engine cannot place.
		{`SELECT COUNT(*), COALESCE(SUM(unapplied), 0) FROM batches`, []any{&st.Batches, &st.UnappliedEdits}},
		{`SELECT COUNT(DISTINCT author) FROM documents`, []any{&st.Authors}},
		{`SELECT COALESCE(MIN(created_at), 0), COALESCE(MAX(created_at), 0) FROM documents`, []any{&st.OldestDoc, &st.NewestDoc}},
	}
	for _, sc := range scalars {
		if err := s.db.QueryRowContext(ctx, sc.query).Scan(sc.dest...); err != nil {
			return nil, err
		}
	}

	// MIN over an empty trash is NULL, so this one scans separately.
	var oldestDeleted sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MIN(deleted_at) FROM documents WHERE deleted_at IS NOT NULL`).Scan(&oldestDeleted)
	if err != nil {
		return nil, err
	}
	if oldestDeleted.Valid {
		st.OldestDeletedAt = oldestDeleted.Int64
	}

	return &st, nil
}
