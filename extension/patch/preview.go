// preview.go implements the "patchd preview" command for dry-run patching.
//
// Separated from apply.go because preview is read-only: it runs the same
// engine but writes nothing and shows a diff of the would-be change instead
// of a result summary.

package patch

import (
	"fmt"
	"io"

	"github.com/jpl-au/patchd/cmd"
	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/log"
	"github.com/jpl-au/patchd/internal/patch"
	"github.com/spf13/cobra"
)

func (e *Extension) newPreviewCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "preview <path>",
		Short: "Preview a batch of edits without applying",
		Long: `Run a batch of edits against a document without writing anything.

Shows a unified diff of the change an apply would make, plus which edits
would land. Takes the same batch input as apply.

Examples:
  echo '[{"original": "old", "replacement": "new"}]' | patchd preview docs/readme
  patchd preview docs/readme -f batch.json`,
		Args: cobra.ExactArgs(1),
		RunE: e.runPreview,
	}
	c.Flags().StringP(extension.FlagFile, "f", "", "Read batch from JSON file")
	c.Flags().String(extension.FlagOriginal, "", "Text to find (single-edit batch)")
	c.Flags().String(extension.FlagReplacement, "", "Replacement text (single-edit batch)")
	c.Flags().Int(extension.FlagPasses, 0, "Maximum engine passes (default from config)")
	return c
}

func (e *Extension) runPreview(c *cobra.Command, args []string) error {
	ctx := c.Context()
	p := args[0]

	edits, err := readBatch(c)
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	passes, _ := c.Flags().GetInt(extension.FlagPasses)
	opts := patch.Options{
		Edits:     edits,
		MaxPasses: passes,
	}

	var w io.Writer = cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	out, err := patch.RunPreview(ctx, w, e.svc, p, opts)

	log.Event("patch:preview", "preview").
		Author(cmd.Author()).
		Path(p).
		Detail("edits", len(edits)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("preview %q: %w", p, err))
	}
	return cmd.PrintJSON(out)
}
