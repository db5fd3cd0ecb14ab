// sync_fs.go is the mirror's file I/O: writing, renaming, and removing the
// .md files that shadow database content.
//
// Every operation confines itself to the files directory with os.Root
// (Go 1.24+). Document paths come from the database and from events, and
// confinement guarantees they cannot climb out of the mirror however they
// are spelled. Path validation happens earlier in the stack; this layer
// holds even if that is bypassed.

package sync

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// mirrorName maps a document path to its mirror filename.
func mirrorName(path string) string {
	return path + ".md"
}

// readFileInRoot reads one mirror file's content within the root. The path
// is the document path; the .md suffix is added here.
func readFileInRoot(root *os.Root, path string) (string, error) {
	f, err := root.Open(mirrorName(path))
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	buf := make([]byte, info.Size())
	if _, err := io.ReadFull(f, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// writeInRoot creates or truncates a mirror file within the root, creating
// parent directories first.
func writeInRoot(root *os.Root, name, content string) error {
	if dir := filepath.Dir(name); dir != "." && dir != "" {
		if err := mkdirAllInRoot(root, dir); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	f, err := root.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("opening file %s: %w", name, err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("writing file %s: %w", name, err)
	}
	return nil
}

// WriteFile writes a document's content into the mirror, creating the files
// directory and any intermediate directories on the way.
func WriteFile(filesDir, path, content string) error {
	if err := os.MkdirAll(filesDir, 0755); err != nil {
		return fmt.Errorf("creating files directory: %w", err)
	}

	root, err := os.OpenRoot(filesDir)
	if err != nil {
		return fmt.Errorf("opening files directory: %w", err)
	}
	defer root.Close()

	return writeInRoot(root, mirrorName(path), content)
}

// RemoveFile deletes a document's mirror file. A missing file or missing
// mirror directory is not an error; the mirror may simply never have been
// enabled for this document.
func RemoveFile(filesDir, path string) error {
	root, err := os.OpenRoot(filesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	defer root.Close()

	err = root.Remove(mirrorName(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MoveFile renames a document's mirror file, copy-then-remove so the
// destination's parent directories can be created inside the root first.
// A missing source is not an error.
func MoveFile(filesDir, src, dst string) error {
	root, err := os.OpenRoot(filesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("opening files directory: %w", err)
	}
	defer root.Close()

	content, err := readFileInRoot(root, src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := writeInRoot(root, mirrorName(dst), content); err != nil {
		return err
	}

	if err := root.Remove(mirrorName(src)); err != nil {
		return fmt.Errorf("removing source file: %w", err)
	}
	return nil
}

// mkdirAllInRoot creates a directory and its parents within the root.
// os.Root has no MkdirAll, so walk the components one Mkdir at a time.
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
