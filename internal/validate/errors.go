// errors.go holds the validation sentinels. Plain sentinels rather than
// error types; the category is the whole story, and the validation
// functions add detail by wrapping.

package validate

import "errors"

var (
	ErrInvalidPath     = errors.New("invalid path")
	ErrPathTooLong     = errors.New("path too long")
	ErrContentTooLarge = errors.New("content too large")
	ErrEmptyBatch      = errors.New("empty batch")
	ErrBatchTooLarge   = errors.New("batch too large")
)
