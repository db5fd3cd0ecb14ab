// Package exporter writes stored documents out to the filesystem as .md
// files. All writes go through an os.Root opened on the destination, so a
// document path can never escape the directory the user named.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpl-au/patchd/internal/progress"
	"github.com/jpl-au/patchd/internal/service"
)

// Options configures an export operation.
type Options struct {
	Version int  // Specific version to export (0 = latest)
	Force   bool // Overwrite existing files
}

// Result contains the outcome of an export operation.
type Result struct {
	Exported int      // Number of files exported
	Paths    []string // Filesystem paths that were written
}

// Run exports to dst. A path ending in "/" exports every document under
// that prefix; anything else exports one document.
func Run(ctx context.Context, w io.Writer, svc service.Service, path, dst string, opts Options) (Result, error) {
	if strings.HasSuffix(path, "/") || path == "/" {
		return exportPrefix(ctx, w, svc, strings.TrimSuffix(path, "/"), dst, opts)
	}
	return exportSingle(ctx, w, svc, path, dst, opts)
}

func exportSingle(ctx context.Context, w io.Writer, svc service.Service, docPath, dst string, opts Options) (Result, error) {
	var result Result

	// The argument may be a key; resolve to the real document path first.
	doc, _, err := svc.Resolve(ctx, docPath, false)
	if err != nil {
		return result, fmt.Errorf("resolving document: %w", err)
	}
	docPath = doc.Path

	content, err := contentAt(ctx, svc, docPath, opts.Version)
	if err != nil {
		return result, fmt.Errorf("getting document: %w", err)
	}

	outPath, dir, name := singleOutputPath(dst, docPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return result, fmt.Errorf("creating directory: %w", err)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return result, fmt.Errorf("opening destination: %w", err)
	}
	defer root.Close()

	if err := writeFileInRoot(root, name, content, opts.Force); err != nil {
		return result, err
	}

	result.Exported = 1
	result.Paths = []string{outPath}
	fmt.Fprintf(w, "Exported: %s -> %s\n", docPath, outPath)

	return result, nil
}

func exportPrefix(ctx context.Context, w io.Writer, svc service.Service, pfx, dst string, opts Options) (Result, error) {
	var result Result

	docs, err := svc.List(ctx, pfx, false, false)
	if err != nil {
		return result, err
	}

	if len(docs) == 0 {
		return result, fmt.Errorf("no documents found with prefix: %s", pfx)
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return result, fmt.Errorf("creating destination directory: %w", err)
	}

	root, err := os.OpenRoot(dst)
	if err != nil {
		return result, fmt.Errorf("opening destination root: %w", err)
	}
	defer root.Close()

	prog := progress.New("Exporting", len(docs))
	defer prog.Done()

	for _, d := range docs {
		outName := relativeTo(d.Path, pfx) + ".md"

		content, err := contentAt(ctx, svc, d.Path, 0)
		if err != nil {
			return result, fmt.Errorf("getting %s: %w", d.Path, err)
		}

		if err := writeFileInRoot(root, outName, content, opts.Force); err != nil {
			return result, err
		}

		prog.Increment()
		prog.Print()
		outPath := filepath.Join(dst, outName)
		result.Paths = append(result.Paths, outPath)
		result.Exported++
		fmt.Fprintf(w, "Exported: %s -> %s\n", d.Path, outPath)
	}

	return result, nil
}

// contentAt fetches a document's content, at a pinned version when one is
// given.
func contentAt(ctx context.Context, svc service.Service, path string, version int) (string, error) {
	if version > 0 {
		d, err := svc.Version(ctx, path, version)
		if err != nil {
			return "", err
		}
		return d.Content, nil
	}
	d, err := svc.Latest(ctx, path, false)
	if err != nil {
		return "", err
	}
	return d.Content, nil
}

// singleOutputPath works out where one document lands. An existing
// directory gets the document's base name inside it; a fresh path gets
// .md appended unless the user already typed it.
func singleOutputPath(dst, docPath string) (fullPath, dir, name string) {
	info, statErr := os.Stat(dst)
	switch {
	case statErr == nil && info.IsDir():
		name = filepath.Base(docPath) + ".md"
		return filepath.Join(dst, name), dst, name
	case !strings.HasSuffix(dst, ".md"):
		fullPath = dst + ".md"
	default:
		fullPath = dst
	}
	return fullPath, filepath.Dir(fullPath), filepath.Base(fullPath)
}

// relativeTo strips the exported prefix from a document path.
func relativeTo(docPath, prefix string) string {
	if prefix == "" {
		return docPath
	}
	rel := strings.TrimPrefix(docPath, prefix+"/")
	if rel == docPath {
		rel = strings.TrimPrefix(docPath, prefix)
	}
	return rel
}

// writeFileInRoot writes content to name inside root, creating parent
// directories on the way. Without force an existing file is an error.
func writeFileInRoot(root *os.Root, name, content string, force bool) error {
	if !force {
		if _, err := root.Stat(name); err == nil {
			return fmt.Errorf("file exists: %s (use --force to overwrite)", name)
		}
	}

	if dir := filepath.Dir(name); dir != "." && dir != "" {
		if err := mkdirAllInRoot(root, dir); err != nil {
			return err
		}
	}

	f, err := root.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", name, err)
	}
	defer f.Close()

	_, err = f.WriteString(content)
	return err
}

// mkdirAllInRoot creates each path component in turn; os.Root has no
// MkdirAll of its own.
func mkdirAllInRoot(root *os.Root, path string) error {
	parts := strings.Split(filepath.Clean(path), string(filepath.Separator))
	for i := range parts {
		dir := filepath.Join(parts[:i+1]...)
		if err := root.Mkdir(dir, 0755); err != nil && !errors.Is(err, fs.ErrExist) {
			return err
		}
	}
	return nil
}
