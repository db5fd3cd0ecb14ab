// Package path normalises and validates document paths.
//
// Every document path in patchd passes through Normalise before it reaches
// the store or the filesystem mirror. The canonical form is portable across
// platforms: forward slashes only, no leading or trailing slash, no "." or
// ".." components, .md extension stripped. Backslashes are treated as
// separators wherever they appear, because Windows-style input shows up in
// shared databases regardless of the host OS.
//
// Traversal is rejected here by refusing any ".." that survives cleaning;
// os.OpenRoot in the sync package independently confines mirror I/O, so a
// path that slipped past validation still cannot escape.
package path

import (
	"errors"
	stdpath "path"
	"strings"
)

// ErrInvalid indicates the provided document path is invalid.
var ErrInvalid = errors.New("invalid document path")

// ErrTooLong indicates the document path exceeds the configured maximum length.
var ErrTooLong = errors.New("document path too long")

// toSlash converts backslashes to forward slashes. filepath.ToSlash is a
// no-op on Unix where backslash is a legal filename byte, so the
// replacement is explicit and the behaviour identical on every platform.
func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// Normalise cleans a document path to canonical form, or returns ErrInvalid
// for paths that clean away to nothing or still carry traversal.
func Normalise(p string) (string, error) {
	if p == "" {
		return "", ErrInvalid
	}

	// Convert separators first so Clean sees one canonical form; the
	// slash-only stdpath.Clean then behaves the same on every OS.
	p = toSlash(p)
	p = stdpath.Clean(p)

	p = strings.TrimPrefix(p, "/")
	p = strings.TrimSuffix(p, "/")

	// Users habitually paste mirror filenames; strip the extension.
	if len(p) > 3 && strings.EqualFold(p[len(p)-3:], ".md") {
		p = p[:len(p)-3]
	}

	if p == "" || p == "." || p == ".." {
		return "", ErrInvalid
	}
	if strings.Contains(p, "..") {
		return "", ErrInvalid
	}

	return p, nil
}

// Direct reports whether path is a direct child of prefix, or the prefix
// itself. The prefix may be raw user input; it gets separator conversion
// and trailing-slash trimming, the path is assumed already normalised.
//
// With prefix "docs": "docs/readme" is direct, "docs/api/auth" is not,
// "docs" itself is. With empty prefix, top-level paths are direct.
func Direct(path, prefix string) bool {
	prefix = toSlash(prefix)
	prefix = strings.TrimSuffix(prefix, "/")

	if path == prefix {
		return true
	}

	var rest string
	switch {
	case prefix == "":
		rest = path
	case strings.HasPrefix(path, prefix+"/"):
		rest = path[len(prefix)+1:]
	default:
		return false
	}

	return !strings.Contains(rest, "/")
}
