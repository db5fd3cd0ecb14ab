// Package importer pulls markdown files from the filesystem into the
// store. Directory imports walk through an os.Root opened on the source,
// so symlinks cannot drag in files from outside it. Only .md files are
// considered; everything else in the tree is ignored.
package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpl-au/patchd/internal/progress"
	"github.com/jpl-au/patchd/internal/service"
)

// Options configures an import operation.
type Options struct {
	Prefix string // Target path prefix
	Flat   bool   // Flatten directory structure
	Hidden bool   // Include hidden files/directories
	DryRun bool   // Show what would be imported without importing
	Author string // Author for imported documents
	Msg    string // Commit message for imported documents
}

// Result contains the outcome of an import operation.
type Result struct {
	Imported int      // Number of files imported
	Paths    []string // Paths that were/would be imported
}

// Run imports src, which may be one file or a directory tree.
func Run(ctx context.Context, w io.Writer, svc service.Service, src string, opts Options) (Result, error) {
	var result Result

	info, err := os.Stat(src)
	if err != nil {
		return result, err
	}

	if !info.IsDir() {
		return importFile(ctx, w, svc, src, opts)
	}

	root, err := os.OpenRoot(src)
	if err != nil {
		return result, fmt.Errorf("opening source root: %w", err)
	}
	defer root.Close()

	files, err := scanRoot(root, "", opts.Hidden)
	if err != nil {
		return result, fmt.Errorf("scanning %s: %w", src, err)
	}

	if len(files) == 0 {
		return result, nil
	}

	prog := progress.New("Importing", len(files))
	defer prog.Done()

	for _, rel := range files {
		path := docPath(rel, opts.Prefix, opts.Flat)
		result.Paths = append(result.Paths, path)

		if opts.DryRun {
			fmt.Fprintf(w, "Would import: %s -> %s\n", filepath.Join(src, rel), path)
			prog.Increment()
			prog.Print()
			continue
		}

		content, err := readFileInRoot(root, rel)
		if err != nil {
			return result, fmt.Errorf("reading %s: %w", rel, err)
		}

		if err := svc.Write(ctx, path, content, opts.Author, opts.Msg); err != nil {
			return result, fmt.Errorf("writing %s: %w", path, err)
		}

		prog.Increment()
		prog.Print()
		fmt.Fprintf(w, "Imported: %s -> %s\n", filepath.Join(src, rel), path)
		result.Imported++
	}

	return result, nil
}

// importFile imports a single markdown file. Non-markdown files are a
// silent no-op so shell globs can pass mixed file lists.
func importFile(ctx context.Context, w io.Writer, svc service.Service, file string, opts Options) (Result, error) {
	var result Result

	if !strings.HasSuffix(strings.ToLower(file), ".md") {
		return result, nil
	}

	path := docPath(filepath.Base(file), opts.Prefix, opts.Flat)
	result.Paths = append(result.Paths, path)

	if opts.DryRun {
		fmt.Fprintf(w, "Would import: %s -> %s\n", file, path)
		return result, nil
	}

	content, err := os.ReadFile(file)
	if err != nil {
		return result, fmt.Errorf("reading %s: %w", file, err)
	}

	if err := svc.Write(ctx, path, string(content), opts.Author, opts.Msg); err != nil {
		return result, fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(w, "Imported: %s -> %s\n", file, path)
	result.Imported = 1
	return result, nil
}

// scanRoot walks root under dir and returns the relative paths of every
// markdown file. Hidden entries are skipped unless asked for.
func scanRoot(root *os.Root, dir string, includeHidden bool) ([]string, error) {
	var files []string

	path := dir
	if path == "" {
		path = "."
	}

	f, err := root.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		name := entry.Name()

		if !includeHidden && strings.HasPrefix(name, ".") {
			continue
		}

		rel := name
		if dir != "" {
			rel = filepath.Join(dir, name)
		}

		if entry.IsDir() {
			sub, err := scanRoot(root, rel, includeHidden)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
		} else if strings.HasSuffix(strings.ToLower(name), ".md") {
			files = append(files, rel)
		}
	}

	return files, nil
}

func readFileInRoot(root *os.Root, name string) (string, error) {
	f, err := root.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	content := make([]byte, info.Size())
	if _, err := io.ReadFull(f, content); err != nil {
		return "", err
	}

	return string(content), nil
}

// docPath maps a source filename to a document path: strip the extension,
// flatten if requested, then put the target prefix in front.
func docPath(relPath, prefix string, flat bool) string {
	path := strings.TrimSuffix(relPath, ".md")
	path = strings.TrimSuffix(path, ".MD")
	path = filepath.ToSlash(path)

	if flat {
		path = filepath.Base(path)
	}

	if prefix != "" {
		path = strings.TrimSuffix(prefix, "/") + "/" + path
	}

	return path
}
