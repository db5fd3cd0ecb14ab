// sqlite_ops.go owns the SQLite connection: driver registration, pragma
// setup, and the transaction helper. Nothing else in the package touches
// the driver import, so swapping the implementation means editing one file.
//
// The store runs WAL mode with a busy timeout. WAL keeps readers unblocked
// while a patch commits, which matters when the MCP server reads a document
// the CLI is applying a batch to.

package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"

	// Register sqlite driver
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a single SQLite file. Documents, their
// version history, batch records, and the FTS index all live in that file.
type SQLiteStore struct {
	db *sql.DB
}

// Fails the build if SQLiteStore drifts from the Store interface.
var _ Store = (*SQLiteStore)(nil)

// Pragmas applied at open, in order. WAL allows concurrent readers during a
// write. The 5s busy timeout rides out short lock contention instead of
// surfacing "database is locked". synchronous=NORMAL is durable under WAL
// except against OS crash mid-commit, where the worst case is losing the
// final transaction; every patchd command can simply be re-run.
var openPragmas = []string{
	`PRAGMA journal_mode=WAL`,
	`PRAGMA busy_timeout=5000`,
	`PRAGMA synchronous=NORMAL`,
}

// Open opens (or creates) the database file at path and applies the
// connection pragmas. The caller owns the returned store and must Close it.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	for _, pragma := range openPragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", strings.ToLower(strings.TrimPrefix(pragma, "PRAGMA ")), err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Init creates the schema. Idempotent; every statement guards itself with
// IF NOT EXISTS, so re-running against a populated database is safe.
func (s *SQLiteStore) Init() error {
	return execSchema(s.db)
}

// Close flushes and releases the connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the raw connection for extensions that keep their own tables.
// Core tables belong to this package; extensions must not write them.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// scanner is the common surface of sql.Row and sql.Rows, so one scan
// routine serves both lookup and list queries.
type scanner interface {
	Scan(dest ...any) error
}

func scanDoc(sc scanner) (Document, error) {
	var d Document
	var msg sql.NullString
	var del sql.NullInt64

	err := sc.Scan(&d.ID, &d.Key, &d.Path, &d.Content, &d.Version, &d.Author, &msg, &d.CreatedAt, &del)
	if err != nil {
		return d, err
	}

	if msg.Valid {
		d.Message = msg.String
	}
	if del.Valid {
		d.DeletedAt = &del.Int64
	}
	return d, nil
}

// scanDocument maps sql.ErrNoRows to ErrNotFound so callers compare against
// one sentinel everywhere.
func (s *SQLiteStore) scanDocument(row *sql.Row) (*Document, error) {
	d, err := scanDoc(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return &d, nil
}

func (s *SQLiteStore) scanDocuments(rows *sql.Rows) ([]Document, error) {
	var docs []Document
	for rows.Next() {
		d, err := scanDoc(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Tx runs fn inside a transaction. An error from fn rolls back; a nil
// return commits. Rollback is deferred so panics and early returns cannot
// leave a transaction open, and it is a no-op once Commit succeeds.
//
// Values computed inside fn escape through closure variables:
//
//	var count int64
//	err := s.Tx(ctx, func(tx *sql.Tx) error {
//	    res, err := tx.ExecContext(ctx, `DELETE ...`)
//	    if err != nil {
//	        return err
//	    }
//	    count, _ = res.RowsAffected()
//	    return nil
//	})
func (s *SQLiteStore) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// genID returns a random 8-character lowercase base32 identifier. Keys
// generated here are stable across a document's versions and give every
// document a short handle usable anywhere a path is.
func genID() (string, error) {
	b := make([]byte, 5) // 5 bytes encode to exactly 8 base32 chars
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return strings.ToLower(base32.StdEncoding.EncodeToString(b)), nil
}
