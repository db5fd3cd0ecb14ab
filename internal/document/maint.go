// maint.go holds the maintenance operations. Vacuum is the only path to
// permanent data loss in patchd, which is why it sits apart from the
// ordinary CRUD surface.

package document

import (
	"context"
	"time"

	"github.com/jpl-au/patchd/internal/path"
)

// Vacuum permanently removes soft-deleted documents.
func (s *Service) Vacuum(ctx context.Context, olderThan *time.Duration, prefix string) (int64, error) {
	if prefix != "" {
		var err error
		prefix, err = path.Normalise(prefix)
		if err != nil {
			return 0, err
		}
	}
	return s.store.Vacuum(ctx, olderThan, prefix)
}

// Checkpoint flushes the WAL into the main database file, removing the
// -wal and -shm files. Run it before backing up or shipping the database.
func (s *Service) Checkpoint(ctx context.Context) error {
	return s.store.Checkpoint(ctx)
}
