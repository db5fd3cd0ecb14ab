// log_storage.go persists audit entries to SQLite. log.go owns the fluent
// builder; this file owns the table, the insert, and the database path.
// SQLite rather than a text log means the trail can be filtered and joined
// across projects. The project column stores a hash of the .patchd
// directory path, not the path itself.
//
// Logging never fails the operation being logged: an insert error prints
// one line to stderr and the command carries on.

package log

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

// Logger writes audit log entries to a SQLite database.
type Logger struct {
	db      *sql.DB
	project string
}

func (l *Logger) log(e Entry) {
	var detail *string
	if len(e.Detail) > 0 {
		if b, err := json.Marshal(e.Detail); err == nil {
			s := string(b)
			detail = &s
		}
	}

	success := 0
	if e.Success {
		success = 1
	}

	_, err := l.db.Exec(`
		INSERT INTO log (start, end, project, source, author, action, path, version,
		                 resolved_path, result_version, success, error, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Start, e.End, l.project, e.Source, nilIfEmpty(e.Author), e.Action,
		nilIfEmpty(e.Path), nilIfZero(e.Version),
		nilIfEmpty(e.ResolvedPath), nilIfZero(e.ResultVersion),
		success, nilIfEmpty(e.Error), detail,
	)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "patchd: audit log write failed: %v\n", err)
	}
}

// dbPathFunc resolves the database location. Tests point it at a temp
// directory.
var dbPathFunc = defaultDBPath

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// No resolvable home (containers, stripped environments): log
		// relative to the working directory rather than not at all.
		return filepath.Join(".patchd", "log", "patchd-log.db")
	}
	return filepath.Join(home, ".patchd", "log", "patchd-log.db")
}

func dbPath() string {
	return dbPathFunc()
}

// DBPath returns the path to the log database.
func DBPath() string {
	return dbPath()
}

// hash derives the project identifier from a directory path. 64 bits is
// plenty for distinguishing projects on one machine.
func hash(s string) string {
	h, err := blake2b.New(8, nil)
	if err != nil {
		// Cannot happen with a nil key.
		panic("blake2b.New failed: " + err.Error())
	}
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// migrate creates the log table and indexes if missing.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS log (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			start          INTEGER NOT NULL,
			end            INTEGER NOT NULL,
			project        TEXT NOT NULL,
			source         TEXT NOT NULL,
			author         TEXT,
			action         TEXT NOT NULL,
			path           TEXT,
			version        INTEGER,
			resolved_path  TEXT,
			result_version INTEGER,
			success        INTEGER NOT NULL,
			error          TEXT,
			detail         TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_log_start ON log(start);
		CREATE INDEX IF NOT EXISTS idx_log_project ON log(project);
		CREATE INDEX IF NOT EXISTS idx_log_source ON log(source);
	`)
	if err != nil {
		return err
	}

	// Older databases predate the timing columns; the ALTERs fail
	// harmlessly where they already exist.
	db.Exec(`ALTER TABLE log ADD COLUMN start INTEGER`)
	db.Exec(`ALTER TABLE log ADD COLUMN end INTEGER`)

	return nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nilIfZero(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
