// move.go implements document rename and copy for the Service layer.
//
// Both operations commit to the database first and then fire an event with
// the committed state; the sync extension keeps the filesystem mirror in
// step by reacting to those events.

package document

import (
	"context"
	"fmt"

	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/store"
)

// Move renames a document.
func (s *Service) Move(ctx context.Context, src, dst string) error {
	opts := store.MoveOptions{
		MaxPath: s.maxPath,
	}

	if err := s.store.Move(ctx, src, dst, opts); err != nil {
		return fmt.Errorf("move %q to %q: %w", src, dst, err)
	}

	doc, err := s.store.Latest(ctx, dst, false)
	if err != nil {
		return fmt.Errorf("move %q to %q: fetch for event: %w", src, dst, err)
	}
	s.fireEvent(extension.DocumentMoveEvent{
		From:    src,
		To:      dst,
		Version: doc.Version,
		Content: doc.Content,
	})
	return nil
}

// Copy duplicates a document to a new path. The copier parameter tracks who
// performed the copy for audit purposes.
func (s *Service) Copy(ctx context.Context, from, to, copier string) error {
	opts := store.CopyOptions{
		MaxPath: s.maxPath,
	}

	if err := s.store.Copy(ctx, from, to, copier, opts); err != nil {
		return fmt.Errorf("copy %q to %q: %w", from, to, err)
	}

	doc, err := s.store.Latest(ctx, to, false)
	if err != nil {
		return fmt.Errorf("copy %q to %q: fetch: %w", from, to, err)
	}

	s.fireEvent(extension.DocumentWriteEvent{
		Path:    to,
		Version: doc.Version,
		Author:  copier,
		Message: fmt.Sprintf("copied from %s", from),
		Content: doc.Content,
	})
	return nil
}
