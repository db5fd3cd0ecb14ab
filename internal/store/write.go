// write.go holds the mutating store operations. Writes never update in
// place: each one inserts a new row at MAX(version)+1, computed inside
// the same transaction as the insert. That transaction is what
// serialises concurrent applies to one path; two of them cannot both
// win the same version slot.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jpl-au/patchd/internal/validate"
)

// Write inserts content as the next version of path. A new document
// starts at version 1.
func (s *SQLiteStore) Write(ctx context.Context, path, content string, opts WriteOptions) error {
	path, err := validate.Path(path, opts.MaxPath)
	if err != nil {
		return err
	}
	if err := validate.Content(content, opts.MaxContent); err != nil {
		return err
	}

	return s.Tx(ctx, func(tx *sql.Tx) error {
		var maxVer int
		err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM documents WHERE path = ?`, path).Scan(&maxVer)
		if err != nil {
			return fmt.Errorf("get max version: %w", err)
		}

		id, err := genID()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `INSERT INTO documents (key, path, content, version, author, message, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, path, content, maxVer+1, opts.Author, opts.Message, time.Now().Unix())
		if err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
		return nil
	})
}

// Delete soft-deletes every version of a document at once. Batch
// records stay: they describe applies that genuinely happened. Returns
// ErrNotFound when the document is absent or already deleted.
func (s *SQLiteStore) Delete(ctx context.Context, path string, opts DeleteOptions) error {
	path, err := validate.Path(path, opts.MaxPath)
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	result, err := s.db.ExecContext(ctx, `UPDATE documents SET deleted_at = ? WHERE path = ? AND deleted_at IS NULL`,
		now, path)
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteVersion soft-deletes one version only; the rest of the history
// stays readable. Returns ErrNotFound for a missing version.
func (s *SQLiteStore) DeleteVersion(ctx context.Context, path string, version int, opts DeleteVersionOptions) error {
	path, err := validate.Path(path, opts.MaxPath)
	if err != nil {
		return err
	}
	if version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", version)
	}

	now := time.Now().Unix()
	result, err := s.db.ExecContext(ctx, `UPDATE documents SET deleted_at = ? WHERE path = ? AND version = ? AND deleted_at IS NULL`,
		now, path, version)
	if err != nil {
		return fmt.Errorf("delete version %d of %s: %w", version, path, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete version %d of %s: %w", version, path, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Restore clears deleted_at on every version of a soft-deleted
// document. Until vacuum runs, any deletion can be undone this way.
func (s *SQLiteStore) Restore(ctx context.Context, path string, opts RestoreOptions) error {
	path, err := validate.Path(path, opts.MaxPath)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `UPDATE documents SET deleted_at = NULL WHERE path = ? AND deleted_at IS NOT NULL`, path)
	if err != nil {
		return fmt.Errorf("restore %s: %w", path, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("restore %s: %w", path, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
