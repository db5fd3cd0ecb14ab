// Package revert rolls a document back by writing the old content forward
// as a new version. Nothing is rewound or removed: history shows the
// revert itself, and a revert can be reverted. The target version comes
// from a key, an explicit version number, or a bare key argument.
package revert

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jpl-au/patchd/internal/service"
	"github.com/jpl-au/patchd/internal/store"
)

// Options configures a revert operation.
type Options struct {
	Author  string // Who is performing the revert
	Message string // Custom message (defaults to "Revert to vN" or "Revert to <key>")
	Key     string // Explicit version key (overrides target interpretation)
}

// Result contains the outcome of a revert operation.
type Result struct {
	Path       string `json:"path"`
	RevertedTo int    `json:"reverted_to"` // Version number reverted to
	NewVersion int    `json:"new_version"` // New version number created
	Key        string `json:"key"`         // Key of the version reverted to
	Author     string `json:"author"`
	Message    string `json:"message"`
}

// Run reverts a document to an earlier version. target plus version names
// a specific version of a path; target alone must be a key, since a bare
// path leaves the version ambiguous.
func Run(ctx context.Context, w io.Writer, svc service.Service, target string, version int, opts Options) (Result, error) {
	var result Result

	doc, usedKey, err := resolveTarget(ctx, svc, target, version, opts.Key)
	if err != nil {
		return result, err
	}

	message := opts.Message
	if message == "" {
		if usedKey {
			message = fmt.Sprintf("Revert to %s", target)
		} else {
			message = fmt.Sprintf("Revert to v%d", doc.Version)
		}
	}

	// The document may have been deleted between resolution and now;
	// re-check the live state before writing on top of it.
	current, err := svc.Latest(ctx, doc.Path, true)
	if err != nil {
		return result, fmt.Errorf("check current state: %w", err)
	}
	if current.DeletedAt != nil {
		return result, fmt.Errorf("document is deleted (use 'patchd restore %s' first)", doc.Path)
	}

	if err := svc.Write(ctx, doc.Path, doc.Content, opts.Author, message); err != nil {
		return result, fmt.Errorf("write reverted content: %w", err)
	}

	newDoc, err := svc.Latest(ctx, doc.Path, false)
	if err != nil {
		return result, fmt.Errorf("get new version: %w", err)
	}

	result = Result{
		Path:       doc.Path,
		RevertedTo: doc.Version,
		NewVersion: newDoc.Version,
		Key:        doc.Key,
		Author:     opts.Author,
		Message:    message,
	}

	fmt.Fprintf(w, "Reverted %s to v%d (now v%d)\n", doc.Path, doc.Version, newDoc.Version)
	return result, nil
}

// resolveTarget fetches the version being reverted to. Precedence: an
// explicit --key, then path plus version number, then the bare target
// which must turn out to be a key.
func resolveTarget(ctx context.Context, svc service.Service, target string, version int, key string) (*store.Document, bool, error) {
	if key != "" {
		doc, err := svc.ByKey(ctx, key)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, false, fmt.Errorf("key not found: %s", key)
			}
			return nil, false, err
		}
		return doc, true, nil
	}

	if version > 0 {
		doc, err := svc.Version(ctx, target, version)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, false, fmt.Errorf("version %d not found for %s", version, target)
			}
			return nil, false, err
		}
		return doc, false, nil
	}

	doc, isKey, err := svc.Resolve(ctx, target, false)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, fmt.Errorf("not found: %s", target)
		}
		return nil, false, err
	}
	if !isKey {
		return nil, false, fmt.Errorf("version required: patchd revert %s <version>", target)
	}
	return doc, true, nil
}
