// sync_detect.go finds filesystem edits by comparing the mirror tree
// against stored content. A file whose content differs from its document
// is a change; a markdown file with no document is an addition. Scanning
// stays inside the os.Root and recursion is capped so a pathological tree
// cannot pin the process.

package sync

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpl-au/patchd/internal/path"
)

// MaxScanDepth caps directory recursion.
const MaxScanDepth = 100

// detectChangesInRoot compares the files under root against db (document
// path to stored content).
func detectChangesInRoot(root *os.Root, db map[string]string) (Changes, error) {
	var changes Changes

	files, err := scanRootDir(root, "", 0)
	if err != nil {
		return changes, err
	}

	for _, rel := range files {
		docPath := strings.TrimSuffix(rel, ".md")
		docPath = strings.TrimSuffix(docPath, ".MD")
		docPath = filepath.ToSlash(docPath)

		// os.Root already confines reads; normalising on top keeps
		// malformed names out of the database. Files that do not
		// normalise are skipped, not errors.
		docPath, err := path.Normalise(docPath)
		if err != nil {
			continue
		}

		content, err := readFileInRoot(root, docPath)
		if err != nil {
			return changes, err
		}

		if stored, exists := db[docPath]; exists {
			if content != stored {
				changes.Changed = append(changes.Changed, docPath)
			}
		} else {
			changes.Added = append(changes.Added, docPath)
		}
	}

	return changes, nil
}

// scanRootDir walks root under dir collecting relative markdown paths.
// Hidden entries are always skipped; the mirror never writes them.
func scanRootDir(root *os.Root, dir string, depth int) ([]string, error) {
	if depth > MaxScanDepth {
		return nil, fmt.Errorf("directory depth exceeds limit of %d", MaxScanDepth)
	}

	var files []string

	path := dir
	if path == "" {
		path = "."
	}

	f, err := root.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	for _, entry := range entries {
		name := entry.Name()

		if strings.HasPrefix(name, ".") {
			continue
		}

		rel := name
		if dir != "" {
			rel = filepath.Join(dir, name)
		}

		if entry.IsDir() {
			sub, err := scanRootDir(root, rel, depth+1)
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
