// write_move.go holds rename and copy. A move rewrites the path on every
// version row and drags the batches table along in the same transaction,
// so "what was applied to this document" survives the rename. A copy is
// different on purpose: the destination starts at version 1 with no batch
// history, because nothing has been applied to it yet.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jpl-au/patchd/internal/validate"
)

// Move renames a document, carrying its batch application history along.
// Returns ErrNotFound if source doesn't exist, ErrAlreadyExists if
// destination exists.
func (s *SQLiteStore) Move(ctx context.Context, src, dst string, opts MoveOptions) error {
	src, err := validate.Path(src, opts.MaxPath)
	if err != nil {
		return err
	}
	dst, err = validate.Path(dst, opts.MaxPath)
	if err != nil {
		return err
	}

	return s.Tx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE path = ? AND deleted_at IS NULL`, dst).Scan(&n); err != nil {
			return fmt.Errorf("check destination %s: %w", dst, err)
		}
		if n > 0 {
			return ErrAlreadyExists
		}

		res, err := tx.ExecContext(ctx, `UPDATE documents SET path = ? WHERE path = ?`, dst, src)
		if err != nil {
			return fmt.Errorf("move %s to %s: %w", src, dst, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("move %s to %s: %w", src, dst, err)
		}
		if rows == 0 {
			return ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, `UPDATE batches SET path = ? WHERE path = ?`, dst, src); err != nil {
			return fmt.Errorf("update batches for move %s to %s: %w", src, dst, err)
		}
		return nil
	})
}

// Copy duplicates a document's latest content to a new path as version 1,
// authored by copier. Returns ErrNotFound if source doesn't exist,
// ErrAlreadyExists if destination exists.
func (s *SQLiteStore) Copy(ctx context.Context, from, to, copier string, opts CopyOptions) error {
	from, err := validate.Path(from, opts.MaxPath)
	if err != nil {
		return err
	}
	to, err = validate.Path(to, opts.MaxPath)
	if err != nil {
		return err
	}

	return s.Tx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE path = ? AND deleted_at IS NULL`, to).Scan(&n); err != nil {
			return fmt.Errorf("check destination %s: %w", to, err)
		}
		if n > 0 {
			return ErrAlreadyExists
		}

		var content string
		err := tx.QueryRowContext(ctx, `
			SELECT content FROM documents
			WHERE path = ? AND deleted_at IS NULL
			ORDER BY version DESC LIMIT 1
		`, from).Scan(&content)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("read source %s: %w", from, err)
		}

		id, err := genID()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO documents (key, path, content, version, author, message, created_at)
			VALUES (?, ?, ?, 1, ?, ?, ?)
		`, id, to, content, copier, "Copied from "+from, time.Now().Unix())
		if err != nil {
			return fmt.Errorf("copy %s to %s: %w", from, to, err)
		}
		return nil
	})
}
