// write.go implements document creation, update, and deletion.
//
// Mutations persist to the database first, then fire an extension event
// carrying the committed state. The filesystem mirror is maintained by the
// sync extension reacting to those events, not by this package - the
// database is the source of truth and a failed mirror write is logged, never
// propagated, because the mirror can always be regenerated.

package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/store"
)

// Write creates or updates a document.
func (s *Service) Write(ctx context.Context, path, content, author, message string) error {
	opts := store.WriteOptions{
		Author:     author,
		Message:    message,
		MaxPath:    s.maxPath,
		MaxContent: s.maxContent,
	}
	if opts.Author == "" {
		opts.Author = DefaultAuthor
	}

	if err := s.store.Write(ctx, path, content, opts); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}

	// Fetch the written document so the event carries the allocated version.
	doc, err := s.store.Latest(ctx, path, false)
	if err != nil {
		return fmt.Errorf("retrieving written doc %q: %w", path, err)
	}
	s.fireEvent(extension.DocumentWriteEvent{
		Path:    path,
		Version: doc.Version,
		Author:  author,
		Message: message,
		Content: content,
	})

	return nil
}

// Delete soft-deletes a document.
func (s *Service) Delete(ctx context.Context, path string) error {
	opts := store.DeleteOptions{
		MaxPath: s.maxPath,
	}

	if err := s.store.Delete(ctx, path, opts); err != nil {
		return fmt.Errorf("delete %q: %w", path, err)
	}

	s.fireEvent(extension.DocumentDeleteEvent{Path: path})
	return nil
}

// DeleteVersion soft-deletes a specific version of a document. Other
// versions remain accessible. The fired event reports whether versions
// survive and, if so, carries the new latest content so handlers can refresh
// derived state.
func (s *Service) DeleteVersion(ctx context.Context, path string, version int) error {
	opts := store.DeleteVersionOptions{
		MaxPath: s.maxPath,
	}

	if err := s.store.DeleteVersion(ctx, path, version, opts); err != nil {
		return fmt.Errorf("delete version %d of %q: %w", version, path, err)
	}

	// Latest() with includeDeleted=false returns ErrNotFound when the
	// deleted version was the last one standing.
	doc, err := s.store.Latest(ctx, path, false)
	if errors.Is(err, store.ErrNotFound) {
		s.fireEvent(extension.DocumentDeleteEvent{Path: path, Version: version})
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking remaining versions for %q: %w", path, err)
	}

	s.fireEvent(extension.DocumentDeleteEvent{
		Path:      path,
		Version:   version,
		Remaining: true,
		Content:   doc.Content,
	})
	return nil
}

// Restore restores a soft-deleted document.
func (s *Service) Restore(ctx context.Context, path string) error {
	opts := store.RestoreOptions{
		MaxPath: s.maxPath,
	}

	if err := s.store.Restore(ctx, path, opts); err != nil {
		return fmt.Errorf("restore %q: %w", path, err)
	}

	doc, err := s.store.Latest(ctx, path, false)
	if err != nil {
		return fmt.Errorf("restore %q: fetch latest: %w", path, err)
	}

	s.fireEvent(extension.DocumentRestoreEvent{
		Path:    path,
		Version: doc.Version,
		Content: doc.Content,
	})
	return nil
}
