// Package validate guards the boundary between user input and storage.
// It lives at the store layer, not just the service, so any caller with
// direct store access gets the same checks.
//
// The rules are deliberately few. Dangerous inputs are rejected (null
// bytes, path traversal, oversized payloads); everything else is allowed,
// documents being format-agnostic and the patch engine total over any
// edit text. Every failure wraps a sentinel from errors.go, so callers
// branch with errors.Is:
//
//	if errors.Is(err, validate.ErrInvalidPath) {
//	    // handle invalid path
//	}
package validate
