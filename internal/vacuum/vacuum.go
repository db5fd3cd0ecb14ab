// Package vacuum permanently removes soft-deleted documents. It is the
// only operation that reclaims storage; everything rm touches stays on
// disk until vacuum runs, which is what makes restore possible.
package vacuum

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jpl-au/patchd/internal/progress"
	"github.com/jpl-au/patchd/internal/service"
)

// Options configures vacuum scope and safety checks.
type Options struct {
	OlderThan *time.Duration // Retain recent deletions for recovery
	Prefix    string         // Limit to specific path prefix
	DryRun    bool           // Preview without deleting
}

// Result reports what was (or would be) removed.
type Result struct {
	Deleted int      // Count of removed documents
	Paths   []string // Affected paths (populated in dry-run mode)
}

// Run purges soft-deleted documents. There is no undo; DryRun shows the
// victim list without touching anything.
func Run(ctx context.Context, w io.Writer, svc service.Service, opts Options) (Result, error) {
	var result Result

	if opts.DryRun {
		return preview(ctx, w, svc, opts)
	}

	spin := progress.NewSpinner("Vacuuming")
	spin.Start()
	count, err := svc.Vacuum(ctx, opts.OlderThan, opts.Prefix)
	spin.Stop()

	if err != nil {
		return result, err
	}

	result.Deleted = int(count)
	if count == 0 {
		fmt.Fprintln(w, "No documents to vacuum")
	} else {
		fmt.Fprintf(w, "Vacuumed %d row(s)\n", count)
	}

	return result, nil
}

// preview lists what a real run would delete, applying the same age
// cutoff the store applies.
func preview(ctx context.Context, w io.Writer, svc service.Service, opts Options) (Result, error) {
	var result Result

	docs, err := svc.List(ctx, opts.Prefix, false, true) // deleted only
	if err != nil {
		return result, err
	}

	for _, doc := range docs {
		if doc.DeletedAt == nil {
			continue
		}

		// Deletions inside the retention window survive this vacuum.
		if opts.OlderThan != nil {
			cutoff := time.Now().Add(-*opts.OlderThan).Unix()
			if *doc.DeletedAt >= cutoff {
				continue
			}
		}

		fmt.Fprintf(w, "Would delete: %s (deleted %s)\n",
			doc.Path,
			time.Unix(*doc.DeletedAt, 0).Format("2006-01-02 15:04"))
		result.Paths = append(result.Paths, doc.Path)
		result.Deleted++
	}

	if result.Deleted == 0 {
		fmt.Fprintln(w, "No documents to vacuum")
	} else {
		fmt.Fprintf(w, "\nWould delete %d document(s)\n", result.Deleted)
	}

	return result, nil
}
