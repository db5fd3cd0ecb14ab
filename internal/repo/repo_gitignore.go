// repo_gitignore.go flips databases between local and shared by editing
// the repository's .gitignore. A shared database is committed alongside
// the documents it stores; a local one is listed under a marker comment
// and stays out of git. Edits preserve whatever else the file contains.

package repo

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const localDBHeader = "# Local databases (not committed)"

// resolveDir fills in an empty dir by discovering the .patchd directory.
func resolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return DiscoverDir()
}

// gitignoreLines reads the file and returns its lines with whitespace
// trimmed, for exact-match checks.
func gitignoreLines(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines, nil
}

// IgnoreDB marks a database as local by appending it to the gitignore
// under the local-databases header. Idempotent.
func IgnoreDB(name, dir string) error {
	dir, err := resolveDir(dir)
	if err != nil {
		return err
	}

	dbFile := DBFileName(name)
	gitignore := filepath.Join(dir, ".gitignore")

	lines, err := gitignoreLines(gitignore)
	if err != nil {
		return err
	}

	if slices.Contains(lines, dbFile) {
		return nil
	}

	// Re-read raw so the existing formatting survives the append.
	content, err := os.ReadFile(gitignore)
	if err != nil {
		return err
	}
	s := string(content)

	if !slices.Contains(lines, localDBHeader) {
		s += "\n" + localDBHeader + "\n"
	}
	s += dbFile + "\n"

	return os.WriteFile(gitignore, []byte(s), 0644)
}

// UnignoreDB marks a database as shared by removing its gitignore entry.
// The header comment goes too once no local databases remain under it.
func UnignoreDB(name, dir string) error {
	dir, err := resolveDir(dir)
	if err != nil {
		return err
	}

	dbFile := DBFileName(name)
	gitignore := filepath.Join(dir, ".gitignore")

	content, err := os.ReadFile(gitignore)
	if err != nil {
		return err
	}

	var out []string
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) != dbFile {
			out = append(out, line)
		}
	}

	result := strings.Join(out, "\n")
	if idx := strings.Index(result, localDBHeader); idx != -1 {
		rest := strings.TrimSpace(result[idx+len(localDBHeader):])
		if rest == "" || !strings.Contains(rest, ".db") {
			result = strings.TrimSuffix(result[:idx], "\n")
		}
	}

	return os.WriteFile(gitignore, []byte(result), 0644)
}

// IsIgnored reports whether a database has a gitignore entry.
func IsIgnored(name, dir string) (bool, error) {
	dir, err := resolveDir(dir)
	if err != nil {
		return false, err
	}

	lines, err := gitignoreLines(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return false, err
	}

	return slices.Contains(lines, DBFileName(name)), nil
}
