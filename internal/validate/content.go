// content.go validates document content. Only size is checked; a
// document body can be any UTF-8 text, and the limit exists so a stray
// huge file cannot bloat the SQLite database.

package validate

// Content enforces the content size limit. maxLen of 0 means no limit.
func Content(content string, maxLen int64) error {
	if maxLen > 0 && int64(len(content)) > maxLen {
		return ErrContentTooLarge
	}
	return nil
}
