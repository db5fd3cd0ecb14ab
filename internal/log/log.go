// Package log keeps an audit trail of patchd operations. Entries land in
// ~/.patchd/log/patchd-log.db, one database across every project, so "what
// did the LLM change yesterday?" has a single place to look.
//
// Entries are built fluently and finished with Write, which derives
// success or failure from the error it is handed:
//
//	log.Event("document:cat", "read").
//		Author(cmd.Author()).
//		Path(p).
//		Version(doc.Version).
//		Write(err)
//
// The source is "{extension}:{command}" for CLI commands and "mcp:{tool}"
// for MCP tool calls, e.g. "document:apply" or "mcp:patch".
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry is one logged operation.
type Entry struct {
	Source  string // e.g. "document:cat", "mcp:patch"
	Author  string // who performed the action
	Action  string // verb: read, write, apply, delete...
	Path    string // input: document path requested
	Version int    // input: document version requested

	// Outputs, filled in once the operation succeeded.
	ResolvedPath  string // canonical path, when it differs from the input
	ResultVersion int    // version created or accessed

	Start int64 // unix time at Event()
	End   int64 // unix time at Write()

	Success bool
	Error   string         // error message when failed
	Detail  map[string]any // operation-specific extras
}

// Builder accumulates an Entry. Create one with [Event], chain the field
// setters, finish with [Builder.Write].
type Builder struct {
	entry Entry
}

// Event starts a log entry for an operation. source names where it came
// from ("document:cat", "mcp:write"); action is the verb performed.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// Author records who performed the operation. CLI commands pass
// cmd.Author(); MCP tools pass "mcp".
func (b *Builder) Author(author string) *Builder {
	b.entry.Author = author
	return b
}

// Path records the document path or prefix the operation targets. Leave
// unset for operations with no document target, such as config.
func (b *Builder) Path(path string) *Builder {
	b.entry.Path = path
	return b
}

// Version records the version the user asked for, when they asked for one.
func (b *Builder) Version(version int) *Builder {
	b.entry.Version = version
	return b
}

// Resolved records the canonical path when it differs from the input, e.g.
// after a key resolved to a path.
func (b *Builder) Resolved(path string) *Builder {
	b.entry.ResolvedPath = path
	return b
}

// ResultVersion records the version the operation produced: the new
// version for a write or apply, the version actually read for a read.
func (b *Builder) ResultVersion(version int) *Builder {
	b.entry.ResultVersion = version
	return b
}

// Detail attaches a key-value pair for data with no standard field, such
// as a search query or an applied-edit count. May be called repeatedly.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write finishes the entry and persists it. A nil err logs success; a
// non-nil err logs failure with its message. Typically deferred:
//
//	defer func() {
//		log.Event("document:apply", "apply").Path(p).Write(err)
//	}()
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Idempotent. Logging is best-effort;
// callers may ignore the returned error.
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetProject tags subsequent entries with the project the command ran in.
// dir is the absolute path of the .patchd directory; only its hash is
// stored.
func SetProject(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hash(dir)
	}
}

// Log writes an entry. A no-op when the logger was never opened.
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
