// Package rm soft-deletes documents. Nothing is removed from storage:
// deleted documents stay recoverable through restore until vacuum purges
// them. Given a key instead of a path, rm deletes only that one version.
package rm

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jpl-au/patchd/internal/service"
)

// Options configures a delete operation.
type Options struct {
	Recursive bool   // Delete all documents under path
	Version   int    // If > 0, delete only this specific version
	Key       string // Explicit version key (overrides target interpretation)
}

// Result contains the outcome of a delete operation.
type Result struct {
	Path    string   `json:"path"`
	Version int      `json:"version,omitempty"` // Version deleted (if version-specific)
	Key     string   `json:"key,omitempty"`     // Key deleted (if key-specific)
	Deleted []string `json:"deleted,omitempty"` // Paths of deleted documents (for recursive)
}

// Run soft-deletes a document, one version of it, or everything under a
// prefix.
func Run(ctx context.Context, w io.Writer, svc service.Service, path string, opts Options) (Result, error) {
	result := Result{Path: path}

	if opts.Version > 0 && opts.Recursive {
		return result, fmt.Errorf("--version and --recursive cannot be used together")
	}

	// A plain 8-character argument might be a key. The path interpretation
	// wins when both exist; a key match deletes just that version.
	if opts.Version == 0 && !opts.Recursive && len(path) == 8 {
		_, err := svc.Latest(ctx, path, false)
		if err != nil {
			doc, keyErr := svc.ByKey(ctx, path)
			if keyErr != nil {
				// Neither interpretation matched; the path error reads better.
				return result, err
			}
			if err := svc.DeleteVersion(ctx, doc.Path, doc.Version); err != nil {
				return result, err
			}
			result.Path = doc.Path
			result.Version = doc.Version
			result.Key = path
			result.Deleted = []string{doc.Path}
			fmt.Fprintf(w, "Deleted %s (version %d, key %s)\n", doc.Path, doc.Version, path)
			return result, nil
		}
	}

	switch {
	case opts.Version > 0:
		if err := svc.DeleteVersion(ctx, path, opts.Version); err != nil {
			return result, err
		}
		result.Version = opts.Version
		result.Deleted = []string{path}
		fmt.Fprintf(w, "Deleted %s (version %d)\n", path, opts.Version)

	case opts.Recursive:
		docs, err := svc.List(ctx, path, false, false)
		if err != nil {
			return result, err
		}

		for _, doc := range docs {
			if !strings.HasPrefix(doc.Path, path) {
				continue
			}
			if err := svc.Delete(ctx, doc.Path); err != nil {
				return result, err
			}
			result.Deleted = append(result.Deleted, doc.Path)
			fmt.Fprintf(w, "Deleted %s\n", doc.Path)
		}

		if len(result.Deleted) == 0 {
			fmt.Fprintf(w, "No documents found under %s\n", path)
		}

	default:
		if err := svc.Delete(ctx, path); err != nil {
			return result, err
		}
		result.Deleted = []string{path}
		fmt.Fprintf(w, "Deleted %s\n", path)
	}

	return result, nil
}
