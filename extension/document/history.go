// history.go backs "patchd history": the version trail for one document,
// newest first, with author, timestamp, message and any batch summary.
// The -D flag brings deleted versions into view for recovery decisions.

package document

import (
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/patchd/cmd"
	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/history"
	"github.com/jpl-au/patchd/internal/log"
	"github.com/jpl-au/patchd/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newHistoryCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "history <path|key>",
		Short: "Show document history",
		Long:  `Display version history for a document.`,
		Args:  cobra.ExactArgs(1),
		RunE:  e.runHistory,
	}
	c.Flags().IntP(extension.FlagLimit, "n", 0, "Limit number of versions shown")
	c.Flags().BoolP(extension.FlagDeleted, "D", false, "Include deleted versions")
	c.Flags().BoolP(extension.FlagDiff, "d", false, "Show diffs between versions")
	return c
}

func (e *Extension) runHistory(c *cobra.Command, args []string) error {
	ctx := c.Context()
	limit, _ := c.Flags().GetInt(extension.FlagLimit)
	del, _ := c.Flags().GetBool(extension.FlagDeleted)
	showDiff, _ := c.Flags().GetBool(extension.FlagDiff)
	path := args[0]

	if limit < 0 {
		return cmd.PrintJSONError(fmt.Errorf("limit must be >= 0, got %d", limit))
	}

	opts := history.Options{
		Limit:          limit,
		IncludeDeleted: del,
		ShowDiff:       showDiff,
		Colour:         term.IsTerminal(int(os.Stdout.Fd())),
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	result, err := history.Run(ctx, w, e.svc, path, opts)

	// The argument may have been a key; log the path it resolved to.
	logPath := path
	if len(result.Versions) > 0 {
		logPath = result.Versions[0].Path
	}
	log.Event("document:history", "history").
		Author(cmd.Author()).
		Path(logPath).
		Detail("count", len(result.Versions)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("history %q: %w", path, err))
	}

	if cmd.JSON() {
		out := make([]store.DocJSON, len(result.Versions))
		for i := range result.Versions {
			out[i] = result.Versions[i].ToJSON(false)
		}
		return cmd.PrintJSON(out)
	}
	return nil
}
