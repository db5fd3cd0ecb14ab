// batches.go implements the "patchd batches" command for listing the audit
// trail of past batch applies.
//
// Separated from apply.go because this is a read-only reporting command
// with its own table formatting.

package patch

import (
	"fmt"
	"time"

	"github.com/jpl-au/patchd/cmd"
	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/log"
	"github.com/jpl-au/patchd/internal/store"
	"github.com/spf13/cobra"
)

func (e *Extension) newBatchesCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "batches [path]",
		Short: "List batch apply records",
		Long: `List patch batch records, newest first.

Every apply records a row, including applies that changed nothing, so the
trail shows failed attempts as well as successful ones. With no path,
records for all documents are shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runBatches,
	}
	c.Flags().IntP(extension.FlagLimit, "n", 0, "Maximum records to show")
	return c
}

func (e *Extension) runBatches(c *cobra.Command, args []string) error {
	ctx := c.Context()
	var p string
	if len(args) > 0 {
		p = args[0]
	}
	limit, _ := c.Flags().GetInt(extension.FlagLimit)

	batches, err := e.svc.Batches(ctx, p, limit)

	log.Event("patch:batches", "list").
		Author(cmd.Author()).
		Path(p).
		Detail("count", len(batches)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("batches %q: %w", p, err))
	}

	if !cmd.JSON() {
		writeBatchTable(batches)
	}

	result := make([]store.BatchJSON, len(batches))
	for i := range batches {
		result[i] = batches[i].ToJSON()
	}
	return cmd.PrintJSON(result)
}

// writeBatchTable prints one line per batch record.
func writeBatchTable(batches []store.Batch) {
	if len(batches) == 0 {
		fmt.Fprintln(cmd.Out(), "No batch records")
		return
	}
	for _, b := range batches {
		ts := time.Unix(b.CreatedAt, 0).Local().Format("2006-01-02 15:04")
		version := "unchanged"
		if b.VersionTo > 0 {
			version = fmt.Sprintf("v%d -> v%d", b.VersionFrom, b.VersionTo)
		}
		fmt.Fprintf(cmd.Out(), "%s  %-30s %-14s applied=%d skipped=%d unapplied=%d by %s\n",
			ts, b.Path, version, b.Applied, b.Skipped, b.Unapplied, b.Author)
	}
}
