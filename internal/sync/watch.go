// watch.go implements continuous filesystem watching for sync.
//
// Separated from sync.go because watching is a long-running loop around the
// one-shot Run, with its own lifecycle (fsnotify watcher, debounce timer,
// context cancellation).
//
// Design: editors write files in bursts (temp file, rename, chmod), so
// events are debounced - each burst settles before one sync pass runs.
// fsnotify does not watch recursively, so every directory under the files
// root is registered individually, and newly created directories are added
// as their create events arrive.

package sync

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jpl-au/patchd/internal/service"
)

// debounceInterval is how long the filesystem must stay quiet before a
// sync pass runs. Long enough to cover an editor's save burst, short
// enough to feel immediate.
const debounceInterval = 500 * time.Millisecond

// Watch runs sync passes whenever files under filesDir change, until ctx
// is cancelled. Each pass re-reads document state from the store so that
// writes made through patchd while watching are not treated as filesystem
// changes.
func Watch(ctx context.Context, w io.Writer, svc service.Service, filesDir string, opts Options) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, filesDir); err != nil {
		return err
	}

	fmt.Fprintf(w, "Watching %s (Ctrl-C to stop)\n", filesDir)

	// The timer fires one debounce interval after the last event. Stopped
	// until the first event arrives.
	timer := time.NewTimer(debounceInterval)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				// New directories need their own watch to see files inside
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, event.Name); err != nil {
						return err
					}
				}
			}
			timer.Reset(debounceInterval)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w, "warning: watch error: %v\n", err)

		case <-timer.C:
			if err := syncPass(ctx, w, svc, filesDir, opts); err != nil {
				return err
			}
		}
	}
}

// syncPass snapshots document state and runs one sync cycle.
func syncPass(ctx context.Context, w io.Writer, svc service.Service, filesDir string, opts Options) error {
	docs, err := svc.List(ctx, "", false, false)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	db := make(map[string]string, len(docs))
	for _, d := range docs {
		db[d.Path] = d.Content
	}

	result, err := Run(ctx, w, svc, filesDir, db, opts)
	if err != nil {
		return fmt.Errorf("sync pass: %w", err)
	}
	if total := result.Updated + result.Added; total > 0 {
		fmt.Fprintf(w, "Synced %d file(s)\n", total)
	}
	return nil
}

// watchTree registers dir and every directory beneath it with the watcher.
func watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
