// search.go delegates full-text search to the store. The prefix is
// normalised like any path, but the query goes through untouched so FTS5
// syntax (AND, OR, prefix*, "phrases") keeps working.

package document

import (
	"context"

	"github.com/jpl-au/patchd/internal/path"
	"github.com/jpl-au/patchd/internal/store"
)

// Search performs full-text search.
func (s *Service) Search(ctx context.Context, query, prefix string, includeDeleted, deletedOnly bool) ([]store.Document, error) {
	if prefix != "" {
		var err error
		prefix, err = path.Normalise(prefix)
		if err != nil {
			return nil, err
		}
	}
	return s.store.Search(ctx, query, prefix, includeDeleted, deletedOnly)
}
