// Package document implements the service layer over the SQLite store:
// path validation, batch patching, and event notification. Derived state
// such as the filesystem mirror lives in extensions reacting to the
// events this package fires.
package document

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/config"
	"github.com/jpl-au/patchd/internal/log"
	norm "github.com/jpl-au/patchd/internal/path"
	"github.com/jpl-au/patchd/internal/repo"
	"github.com/jpl-au/patchd/internal/store"
)

const DefaultAuthor = "unknown"

// Service wraps a store with validation and extension events. Limit
// values are cached from config at creation; ReloadConfig refreshes them.
type Service struct {
	store         *store.SQLiteStore
	dbPath        string
	filesDir      string
	syncFiles     bool
	maxPath       int
	maxContent    int64
	maxLineLength int
	maxBatchEdits int
	maxPasses     int
	extCtx        extension.Context
}

// New discovers the database by walking up from the current directory
// and opens a service on it. db selects a named database; empty means
// the default. Returns ErrNotInitialised when nothing is found.
func New(db string) (*Service, error) {
	dbPath, err := repo.Discover(db)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	s := &Service{
		store:         st,
		dbPath:        dbPath,
		filesDir:      filepath.Dir(dbPath),
		syncFiles:     cfg.SyncFiles(),
		maxPath:       cfg.MaxPath(),
		maxContent:    cfg.MaxContent(),
		maxLineLength: cfg.MaxLineLength(),
		maxBatchEdits: cfg.MaxBatchEdits(),
		maxPasses:     cfg.MaxPasses(),
	}

	// Every service fires events, including ones created outside the
	// CLI's shared init path (import, serve).
	s.extCtx = extension.NewContext(s, st.DB(), cfg)
	return s, nil
}

// Init creates a new patchd store in dir (or the current directory).
// With local set, the database file is added to .gitignore. Config is
// not written here; "patchd config" owns that.
func Init(force bool, db string, local bool, dir string) error {
	return repo.Init(force, db, local, dir)
}

// Close checkpoints the WAL and closes the database.
func (s *Service) Close() error {
	if err := s.store.Checkpoint(context.Background()); err != nil {
		log.Event("service:close", "checkpoint").
			Detail("error", err.Error()).
			Write(err)
	}
	return s.store.Close()
}

// ReloadConfig re-reads config from disk and refreshes cached limits.
func (s *Service) ReloadConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	s.syncFiles = cfg.SyncFiles()
	s.maxPath = cfg.MaxPath()
	s.maxContent = cfg.MaxContent()
	s.maxLineLength = cfg.MaxLineLength()
	s.maxBatchEdits = cfg.MaxBatchEdits()
	s.maxPasses = cfg.MaxPasses()
	return nil
}

// SyncEnabled reports whether writes should be mirrored to the files
// directory.
func (s *Service) SyncEnabled() bool {
	return s.syncFiles
}

// normalizePath validates and canonicalises a document path. The store
// layer validates again on its own, so direct store access stays safe.
func (s *Service) normalizePath(path string) (string, error) {
	return norm.Normalise(path)
}

// normalizePrefix is normalizePath for optional prefixes. An empty
// prefix means "everything" and passes through untouched.
func (s *Service) normalizePrefix(prefix string) (string, error) {
	if prefix == "" {
		return "", nil
	}
	return norm.Normalise(prefix)
}

// fireEvent hands e to every registered event handler. Handler errors
// are logged and swallowed: the operation the event describes has
// already committed, so a failing mirror write cannot undo it.
func (s *Service) fireEvent(e extension.Event) {
	for _, ext := range extension.All() {
		if h, ok := ext.(extension.EventHandler); ok {
			if err := h.HandleEvent(s.extCtx, e); err != nil {
				log.Event("event:error", "error").
					Detail("ext", ext.Name()).
					Detail("event", string(e.EventType())).
					Write(err)
			}
		}
	}
}

// DB exposes the underlying connection for extensions.
func (s *Service) DB() *sql.DB {
	return s.store.DB()
}

// MaxLineLength returns the scanner buffer limit from config.
func (s *Service) MaxLineLength() int {
	return s.maxLineLength
}

// DBPath returns the database file path.
func (s *Service) DBPath() string {
	return s.dbPath
}

// FilesDir returns the .patchd directory path.
func (s *Service) FilesDir() string {
	return s.filesDir
}

// Tx runs fn in a transaction, committing on nil and rolling back on
// error or panic. Extensions use it for multi-step atomic work the
// Service API does not cover.
func (s *Service) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if err := fn(tx); err != nil {
		return fmt.Errorf("transaction rolled back: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
