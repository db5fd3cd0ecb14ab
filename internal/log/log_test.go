package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempDB points the logger at a throwaway database for the test's
// lifetime.
func useTempDB(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	orig := dbPathFunc
	dbPathFunc = func() string {
		return filepath.Join(tmpDir, "log", "test.db")
	}
	t.Cleanup(func() { dbPathFunc = orig })
}

// queryLast scans columns of the most recent log row into dest.
func queryLast(t *testing.T, columns string, dest ...any) {
	t.Helper()
	db, err := sql.Open("sqlite", DBPath())
	require.NoError(t, err)
	defer db.Close()

	err = db.QueryRow("SELECT " + columns + " FROM log ORDER BY id DESC LIMIT 1").Scan(dest...)
	require.NoError(t, err)
}

func TestLogger(t *testing.T) {
	useTempDB(t)

	t.Run("open and close", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)
		defer Close()

		assert.FileExists(t, DBPath())
	})

	t.Run("log entry", func(t *testing.T) {
		Close()
		err := Open()
		require.NoError(t, err)
		defer Close()

		SetProject("/work/handbook/.patchd")

		Log(Entry{
			Source:  "document:cat",
			Author:  "sam",
			Action:  "read",
			Path:    "specs/auth",
			Version: 3,
			Success: true,
		})

		var source, action, path string
		var version, success int
		queryLast(t, "source, action, path, version, success",
			&source, &action, &path, &version, &success)
		assert.Equal(t, "document:cat", source)
		assert.Equal(t, "read", action)
		assert.Equal(t, "specs/auth", path)
		assert.Equal(t, 3, version)
		assert.Equal(t, 1, success)
	})

	t.Run("log error entry", func(t *testing.T) {
		Close()
		err := Open()
		require.NoError(t, err)
		defer Close()

		SetProject("/work/handbook/.patchd")

		Log(Entry{
			Source:  "document:cat",
			Action:  "read",
			Path:    "specs/missing",
			Success: false,
			Error:   "document not found",
		})

		var success int
		var errMsg string
		queryLast(t, "success, error", &success, &errMsg)
		assert.Equal(t, 0, success)
		assert.Equal(t, "document not found", errMsg)
	})

	t.Run("log with detail", func(t *testing.T) {
		Close()
		err := Open()
		require.NoError(t, err)
		defer Close()

		SetProject("/work/handbook/.patchd")

		Log(Entry{
			Source:  "document:apply",
			Action:  "apply",
			Success: true,
			Detail:  map[string]any{"applied": 4, "skipped": 1},
		})

		var detail string
		queryLast(t, "detail", &detail)
		assert.Contains(t, detail, "applied")
		assert.Contains(t, detail, "4")
	})

	t.Run("log without logger is noop", func(t *testing.T) {
		Close()

		// Must not panic with no open logger.
		Log(Entry{
			Source:  "test:cmd",
			Action:  "test",
			Success: true,
		})
	})

	t.Run("open is idempotent", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)

		err = Open()
		require.NoError(t, err)

		Close()
	})
}

func TestHash(t *testing.T) {
	h1 := hash("/work/handbook/.patchd")
	h2 := hash("/work/handbook/.patchd")
	h3 := hash("/work/runbooks/.patchd")

	assert.Equal(t, h1, h2, "same input should produce same hash")
	assert.NotEqual(t, h1, h3, "different input should produce different hash")
	assert.Len(t, h1, 16, "BLAKE2b-64 should produce 16 hex chars")
}

func TestDBPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	orig := dbPathFunc
	dbPathFunc = defaultDBPath
	defer func() { dbPathFunc = orig }()

	assert.Equal(t, filepath.Join(home, ".patchd", "log", "patchd-log.db"), DBPath())
}

func TestBuilder(t *testing.T) {
	useTempDB(t)

	t.Run("fluent success", func(t *testing.T) {
		Close()
		err := Open()
		require.NoError(t, err)
		defer Close()

		SetProject("/work/handbook/.patchd")

		Event("document:cat", "read").
			Author("sam").
			Path("specs/auth").
			Version(5).
			Write(nil)

		var source, author, action, path string
		var version, success int
		queryLast(t, "source, author, action, path, version, success",
			&source, &author, &action, &path, &version, &success)
		assert.Equal(t, "document:cat", source)
		assert.Equal(t, "sam", author)
		assert.Equal(t, "read", action)
		assert.Equal(t, "specs/auth", path)
		assert.Equal(t, 5, version)
		assert.Equal(t, 1, success)
	})

	t.Run("fluent with error", func(t *testing.T) {
		Close()
		err := Open()
		require.NoError(t, err)
		defer Close()

		SetProject("/work/handbook/.patchd")

		failure := sql.ErrNoRows
		Event("document:cat", "read").
			Author("sam").
			Path("specs/missing").
			Write(failure)

		var success int
		var errMsg string
		queryLast(t, "success, error", &success, &errMsg)
		assert.Equal(t, 0, success)
		assert.Equal(t, failure.Error(), errMsg)
	})

	t.Run("fluent with detail", func(t *testing.T) {
		Close()
		err := Open()
		require.NoError(t, err)
		defer Close()

		SetProject("/work/handbook/.patchd")

		Event("document:apply", "apply").
			Author("sam").
			Detail("applied", 3).
			Detail("unapplied", 1).
			Write(nil)

		var detail string
		queryLast(t, "detail", &detail)
		assert.Contains(t, detail, "applied")
		assert.Contains(t, detail, "3")
	})
}
