// apply.go implements the "patchd apply" command for batch document editing.
//
// Separated from patch.go to isolate batch input handling (stdin, file,
// single-edit flags).
//
// Design: Apply accepts a batch in priority order:
// 1. Single-edit flags (--original/--replacement) for quick shell usage
// 2. File flag (-f) for prepared batch files
// 3. Stdin (for piping a JSON batch from another tool)
// Unapplied edits are reported as warnings, not errors, so a partially
// matching batch still lands the edits that did match. Use --strict to
// make any unapplied edit abort the whole batch.

package patch

import (
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/patchd/cmd"
	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/log"
	"github.com/jpl-au/patchd/internal/patch"
	"github.com/spf13/cobra"
)

func (e *Extension) newApplyCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "apply <path>",
		Short: "Apply a batch of edits to a document",
		Long: `Apply a batch of search/replace edits to a document.

The batch is a JSON array of {"original": ..., "replacement": ...} objects,
read from stdin or a file. Edits match loosely on whitespace and case and
may be given in any order. An edit with an empty original inserts its
replacement at the top of the document.

Examples:
  echo '[{"original": "old text", "replacement": "new text"}]' | patchd apply docs/readme
  patchd apply docs/readme -f batch.json
  patchd apply docs/readme --original "old text" --replacement "new text"`,
		Args: cobra.ExactArgs(1),
		RunE: e.runApply,
	}
	c.Flags().StringP(extension.FlagFile, "f", "", "Read batch from JSON file")
	c.Flags().String(extension.FlagOriginal, "", "Text to find (single-edit batch)")
	c.Flags().String(extension.FlagReplacement, "", "Replacement text (single-edit batch)")
	c.Flags().Int(extension.FlagPasses, 0, "Maximum engine passes (default from config)")
	c.Flags().Bool(extension.FlagStrict, false, "Fail if any edit cannot be applied")
	return c
}

func (e *Extension) runApply(c *cobra.Command, args []string) error {
	ctx := c.Context()
	p := args[0]

	edits, err := readBatch(c)
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	passes, _ := c.Flags().GetInt(extension.FlagPasses)
	strict, _ := c.Flags().GetBool(extension.FlagStrict)

	opts := patch.Options{
		Edits:     edits,
		MaxPasses: passes,
		Strict:    strict,
		Author:    cmd.Author(),
		Message:   cmd.Message(),
	}

	var w io.Writer = cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	out, err := patch.Run(ctx, w, e.svc, p, opts)

	log.Event("patch:apply", "apply").
		Author(cmd.Author()).
		Path(p).
		Detail("edits", len(edits)).
		Detail("applied", out.Applied).
		Detail("unapplied", out.Unapplied).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("apply %q: %w", p, err))
	}
	return cmd.PrintJSON(out)
}

// readBatch assembles the edit batch from flags, a file, or stdin.
func readBatch(c *cobra.Command) ([]patch.Edit, error) {
	original, _ := c.Flags().GetString(extension.FlagOriginal)
	replacement, _ := c.Flags().GetString(extension.FlagReplacement)
	file, _ := c.Flags().GetString(extension.FlagFile)

	switch {
	case original != "" || replacement != "":
		return []patch.Edit{{Original: original, Replacement: replacement}}, nil
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("read batch %q: %w", file, err)
		}
		defer f.Close()
		return patch.ParseBatch(f)
	default:
		return patch.ParseBatch(os.Stdin)
	}
}
