// Package repo initialises and locates patchd repositories.
//
// A repository is a .patchd directory holding one or more SQLite
// databases. Discovery walks up from the working directory the way git
// finds .git: the first ancestor with a .patchd directory containing the
// wanted database wins. Multiple named databases can share a repository
// (patchd.db, patchd-docs.db, ...), each with its own git visibility
// controlled through the repository's .gitignore.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpl-au/patchd/internal/store"
)

const (
	// Dir is the directory name for the patchd repository.
	Dir = ".patchd"
	// DBFile is the default database filename.
	DBFile = "patchd.db"
)

// DBFileName maps a short database name to its filename: "" is the
// default patchd.db, "docs" becomes patchd-docs.db, and a name already
// ending in ".db" passes through untouched.
func DBFileName(name string) string {
	if name == "" {
		return DBFile
	}
	if strings.HasSuffix(name, ".db") {
		return name
	}
	return "patchd-" + name + ".db"
}

// ErrNotInitialised is returned when no patchd repository is found.
var ErrNotInitialised = errors.New("patchd not initialised (run 'patchd init')")

// Init creates a repository: the .patchd directory, the named database
// with its schema, and on first init a .gitignore.
//
// Init deliberately writes no config. As with git, init creates the data
// store and nothing else; settings belong to "patchd config" and the
// --local flag only marks the database file as gitignored.
func Init(force bool, db string, local bool, dir string) error {
	if dir == "" {
		dir = "."
	}
	patchdDir := filepath.Join(dir, Dir)
	dbPath := filepath.Join(patchdDir, DBFileName(db))

	if _, err := os.Stat(dbPath); err == nil {
		if !force {
			return fmt.Errorf("database %s already exists (use --force to reinitialise)", DBFileName(db))
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("remove database: %w", err)
		}
	}

	if err := os.MkdirAll(patchdDir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	if err := s.Init(); err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	// Only the first init writes the .gitignore. Later inits adding named
	// databases must not clobber entries like local database markers.
	gitignore := filepath.Join(patchdDir, ".gitignore")
	if _, err := os.Stat(gitignore); os.IsNotExist(err) {
		s := `# patchd - ignore mirrored files and local config
# Database files (*.db) are the source of truth and should be committed
*.md
config.yaml
`
		if err := os.WriteFile(gitignore, []byte(s), 0644); err != nil {
			return fmt.Errorf("write gitignore: %w", err)
		}
	}

	if local {
		if err := IgnoreDB(db, patchdDir); err != nil {
			return fmt.Errorf("ignore database: %w", err)
		}
	}

	return nil
}

// Discover walks up from the working directory until it finds the named
// database inside a .patchd directory, and returns the database path.
func Discover(db string) (string, error) {
	dbFile := DBFileName(db)
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		dbPath := filepath.Join(dir, Dir, dbFile)
		if _, err := os.Stat(dbPath); err == nil {
			return dbPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}

// DiscoverDir walks up from the working directory and returns the nearest
// .patchd directory.
func DiscoverDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		patchdDir := filepath.Join(dir, Dir)
		if info, err := os.Stat(patchdDir); err == nil && info.IsDir() {
			return patchdDir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}

// DBInfo holds database metadata.
type DBInfo struct {
	Name  string // Short name (empty for default, "docs" for patchd-docs.db)
	File  string // Filename (patchd.db, patchd-docs.db)
	Path  string // Full path
	Local bool   // True if gitignored
}

// ListDBs returns the repository's databases and whether each is local.
// An empty dir discovers the .patchd directory first.
func ListDBs(dir string) ([]DBInfo, error) {
	if dir == "" {
		var err error
		dir, err = DiscoverDir()
		if err != nil {
			return nil, fmt.Errorf("discover .patchd directory: %w", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read .patchd directory: %w", err)
	}

	var dbs []DBInfo
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".db") {
			continue
		}

		var name string
		switch {
		case e.Name() == DBFile:
			name = ""
		case strings.HasPrefix(e.Name(), "patchd-"):
			name = strings.TrimSuffix(strings.TrimPrefix(e.Name(), "patchd-"), ".db")
		default:
			// Some other .db file living in the directory.
			continue
		}

		ignored, err := IsIgnored(name, dir)
		if err != nil {
			// Unreadable or mangled .gitignore: treat the database as shared.
			ignored = false
		}
		dbs = append(dbs, DBInfo{
			Name:  name,
			File:  e.Name(),
			Path:  filepath.Join(dir, e.Name()),
			Local: ignored,
		})
	}

	return dbs, nil
}
