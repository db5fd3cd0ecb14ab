// batch.go implements patch batch validation.
//
// Separated because batch validation guards the system boundary in front of
// the patch engine. The engine itself is total - any edit text is a valid
// input to it - so the only rules enforced here are structural: the batch
// must exist and must not exceed the configured size limit.
//
// Design: An empty batch is rejected at the CLI/MCP boundary even though the
// engine treats it as a valid no-op. A caller who submits zero edits almost
// certainly made a mistake (malformed JSON, wrong flag), and surfacing that
// beats silently writing nothing.

package validate

import (
	"fmt"

	"github.com/jpl-au/patchd/internal/patch"
)

// Batch validates a patch batch's structure.
//
// Validation rules:
//   - At least one edit required
//   - Max edit count enforced if maxEdits > 0 (0 means no limit)
func Batch(edits []patch.Edit, maxEdits int) error {
	if len(edits) == 0 {
		return fmt.Errorf("%w: no edits provided", ErrEmptyBatch)
	}
	if maxEdits > 0 && len(edits) > maxEdits {
		return fmt.Errorf("%w: %d edits exceeds limit of %d", ErrBatchTooLarge, len(edits), maxEdits)
	}
	return nil
}
