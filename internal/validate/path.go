// path.go validates document paths before they reach SQL.

package validate

import (
	"fmt"
	"strings"

	"github.com/jpl-au/patchd/internal/path"
)

// Path validates a document path and returns its normalised form. Empty
// paths and null bytes are rejected outright; maxLen of 0 means no length
// limit, which read operations use. Normalisation handles traversal and
// leading slashes.
func Path(p string, maxLen int) (string, error) {
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("%w: null byte in path", ErrInvalidPath)
	}
	if maxLen > 0 && len(p) > maxLen {
		return "", ErrPathTooLong
	}

	norm, err := path.Normalise(p)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	return norm, nil
}
