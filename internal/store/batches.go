// batches.go implements persistence for patch batch application records.
//
// Separated from write.go because batch rows follow different rules from
// documents: they are append-only audit data with no versions and no
// soft-delete. A row is written for every apply that reaches the engine,
// successful or not, so "what did the model try to do to this file" is
// always answerable.

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RecordBatch persists one batch application outcome and returns the stored
// record with its assigned ID.
func (s *SQLiteStore) RecordBatch(ctx context.Context, b Batch) (*Batch, error) {
	b.ID = uuid.NewString()

	_, err := s.db.ExecContext(ctx, `INSERT INTO batches
		(id, path, version_from, version_to, applied, skipped, unapplied, passes, author, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Path, b.VersionFrom, b.VersionTo, b.Applied, b.Skipped, b.Unapplied, b.Passes, b.Author, b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("record batch for %s: %w", b.Path, err)
	}
	return &b, nil
}

// ListBatches returns batch records, newest first. An empty path returns
// records for all documents; a limit of 0 returns everything.
func (s *SQLiteStore) ListBatches(ctx context.Context, path string, limit int) ([]Batch, error) {
	q := `SELECT id, path, version_from, version_to, applied, skipped, unapplied, passes, author, created_at
		FROM batches`
	var args []any

	if path != "" {
		q += ` WHERE path = ?`
		args = append(args, path)
	}
	// rowid breaks created_at ties in insertion order
	q += ` ORDER BY created_at DESC, rowid DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		var b Batch
		if err := rows.Scan(&b.ID, &b.Path, &b.VersionFrom, &b.VersionTo,
			&b.Applied, &b.Skipped, &b.Unapplied, &b.Passes, &b.Author, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}
