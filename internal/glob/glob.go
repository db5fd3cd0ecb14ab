// Package glob matches document paths against glob patterns.
//
// filepath.Match stops at path separators, so this package layers ** on
// top of it: "specs/**" matches everything under specs/ at any depth. A
// trailing .md on the pattern is stripped first, because users habitually
// type mirror filenames where document paths are expected.
package glob

import (
	"path/filepath"
	"strings"
)

// Match reports whether path matches pattern. Supports *, ?, character
// classes, and a single ** segment. Returns an error for malformed
// patterns, same as filepath.Match.
func Match(pattern, path string) (bool, error) {
	pattern = strings.TrimSuffix(pattern, ".md")
	pattern = filepath.ToSlash(pattern)

	// One ** splits the pattern into a literal prefix and a glob suffix.
	// Patterns with more than one ** fall through to plain matching.
	if strings.Contains(pattern, "**") {
		if parts := strings.Split(pattern, "**"); len(parts) == 2 {
			prefix := strings.TrimSuffix(parts[0], "/")
			suffix := strings.TrimPrefix(parts[1], "/")
			return matchDoubleStar(prefix, suffix, path)
		}
	}

	matched, err := filepath.Match(pattern, path)
	if err != nil || matched {
		return matched, err
	}

	// A bare pattern like "readme" should find the document whatever
	// directory it sits in.
	return filepath.Match(pattern, filepath.Base(path))
}

// matchDoubleStar handles "prefix/**/suffix" patterns. The prefix is a
// literal path prefix; the suffix is tried as a glob against every tail of
// the path, so ** may swallow zero or more whole segments.
func matchDoubleStar(prefix, suffix, path string) (bool, error) {
	if prefix != "" && !strings.HasPrefix(path, prefix) {
		return false, nil
	}
	if suffix == "" {
		return true, nil
	}

	segments := strings.Split(path, "/")
	for i := range segments {
		tail := strings.Join(segments[i:], "/")
		m, err := filepath.Match(suffix, tail)
		if err != nil {
			return false, err
		}
		if m {
			return true, nil
		}
		// The suffix may also name a single segment mid-path.
		m, err = filepath.Match(suffix, segments[i])
		if err != nil {
			return false, err
		}
		if m {
			return true, nil
		}
	}
	return false, nil
}
