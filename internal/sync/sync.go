// Package sync keeps the .patchd files directory and the database in
// step. One direction mirrors committed document state out to .md files;
// the other detects edits made directly to those files and imports them
// back as new versions.
//
// Every filesystem touch goes through an os.Root opened on the files
// directory. Document paths originate from user input and the database,
// and a path like "../../etc/passwd" must not be able to escape the
// mirror; os.Root rejects anything resolving outside it, symlinks
// included.
package sync

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/patchd/internal/progress"
	"github.com/jpl-au/patchd/internal/service"
)

// Options configures a sync operation.
type Options struct {
	DryRun bool   // Show what would be synced without syncing
	Author string // Author for synced documents
	Msg    string // Commit message for synced documents
}

// Result contains the outcome of a sync operation.
type Result struct {
	Updated int // Number of documents updated
	Added   int // Number of documents added
}

// Changes holds the filesystem edits found by detection.
type Changes struct {
	Changed []string // Paths of documents that were modified
	Added   []string // Paths of new documents
}

// Empty returns true if there are no changes.
func (c Changes) Empty() bool {
	return len(c.Changed) == 0 && len(c.Added) == 0
}

// Total returns the total number of changes.
func (c Changes) Total() int {
	return len(c.Changed) + len(c.Added)
}

// Run imports filesystem edits into the database. db maps document path
// to stored content and is what the files are compared against.
func Run(ctx context.Context, w io.Writer, svc service.Service, filesDir string, db map[string]string, opts Options) (Result, error) {
	var result Result

	root, err := os.OpenRoot(filesDir)
	if err != nil {
		return result, fmt.Errorf("opening files directory: %w", err)
	}
	defer root.Close()

	changes, err := detectChangesInRoot(root, db)
	if err != nil {
		return result, err
	}

	if changes.Empty() {
		return result, nil
	}

	msg := opts.Msg
	if msg == "" {
		msg = "Synced from filesystem"
	}

	prog := progress.New("Syncing", changes.Total())
	defer prog.Done()

	write := func(p, verb, done, dry string) (bool, error) {
		content, err := readFileInRoot(root, p)
		if err != nil {
			return false, fmt.Errorf("reading %s: %w", p, err)
		}

		wrote := false
		if opts.DryRun {
			fmt.Fprintf(w, "%s: %s\n", dry, p)
		} else {
			if err := svc.Write(ctx, p, content, opts.Author, msg); err != nil {
				return false, fmt.Errorf("%s %s: %w", verb, p, err)
			}
			fmt.Fprintf(w, "%s: %s\n", done, p)
			wrote = true
		}
		prog.Increment()
		prog.Print()
		return wrote, nil
	}

	for _, p := range changes.Changed {
		wrote, err := write(p, "updating", "Updated", "Would update")
		if err != nil {
			return result, err
		}
		if wrote {
			result.Updated++
		}
	}

	for _, p := range changes.Added {
		wrote, err := write(p, "adding", "Added", "Would add")
		if err != nil {
			return result, err
		}
		if wrote {
			result.Added++
		}
	}

	return result, nil
}
