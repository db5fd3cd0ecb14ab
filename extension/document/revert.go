// revert.go backs "patchd revert". A revert writes the old content
// forward as a new version rather than discarding newer ones, so the
// history records it and it can itself be reverted. The target is a path
// plus version, or a bare 8-character key.

package document

import (
	"fmt"
	"io"

	"github.com/jpl-au/patchd/cmd"
	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/log"
	"github.com/jpl-au/patchd/internal/revert"
	"github.com/spf13/cobra"
)

func (e *Extension) newRevertCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "revert <path> [version]",
		Short: "Revert a document to a previous version",
		Long: `Revert a document to a previous version by creating a new version with the old content.

This is a forward-moving operation - it preserves history by creating a new version
rather than deleting versions.

The target can be specified as:
  - A path and version number: patchd revert docs/api 3
  - A key (8-char identifier): patchd revert --key abc12345`,
		Args: cobra.MaximumNArgs(2),
		RunE: e.runRevert,
	}
	c.Flags().StringP(extension.FlagKey, "k", "", "Revert to version by key (8-char identifier)")
	return c
}

func (e *Extension) runRevert(c *cobra.Command, args []string) error {
	ctx := c.Context()
	keyFlag, _ := c.Flags().GetString(extension.FlagKey)

	if len(args) == 0 && keyFlag == "" {
		return cmd.PrintJSONError(fmt.Errorf("requires either a path argument or --key flag"))
	}

	target := ""
	if len(args) > 0 {
		target = args[0]
	}
	version := 0

	if len(args) == 2 {
		if _, err := fmt.Sscanf(args[1], "%d", &version); err != nil {
			return cmd.PrintJSONError(fmt.Errorf("invalid version %q: must be a number", args[1]))
		}
		if version < 1 {
			return cmd.PrintJSONError(fmt.Errorf("version must be >= 1, got %d", version))
		}
	}

	opts := revert.Options{
		Author:  cmd.Author(),
		Message: cmd.Message(),
		Key:     keyFlag,
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	l := log.Event("document:revert", "revert").
		Author(cmd.Author()).
		Path(target).
		Version(version).
		Detail("key", keyFlag)

	result, err := revert.Run(ctx, w, e.svc, target, version, opts)
	if err != nil {
		l.Write(err)
		return cmd.PrintJSONError(err)
	}

	l.Resolved(result.Path).
		ResultVersion(result.NewVersion).
		Write(nil)

	return cmd.PrintJSON(result)
}
