// checkpoint.go flushes the WAL. TRUNCATE mode empties it fully and
// drops the -wal and -shm files, which matters when the database file is
// about to be copied or committed to git.

package store

import (
	"context"
	"fmt"
)

// Checkpoint writes all WAL data back to the main database file and
// truncates the WAL.
func (s *SQLiteStore) Checkpoint(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return fmt.Errorf("WAL checkpoint: %w", err)
	}
	return nil
}
