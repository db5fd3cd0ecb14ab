// mv.go backs "patchd mv". A move rewrites the path on every version row,
// so the full history, batch records included, travels with the document.

package document

import (
	"fmt"

	"github.com/jpl-au/patchd/cmd"
	"github.com/jpl-au/patchd/internal/log"
	"github.com/spf13/cobra"
)

type mvResult struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (e *Extension) newMvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <source> <dest>",
		Short: "Move/rename a document",
		Long:  `Rename a document or move it to a new path.`,
		Args:  cobra.ExactArgs(2),
		RunE:  e.runMv,
	}
}

func (e *Extension) runMv(c *cobra.Command, args []string) error {
	ctx := c.Context()
	src, dst := args[0], args[1]

	err := e.svc.Move(ctx, src, dst)

	log.Event("document:mv", "move").
		Author(cmd.Author()).
		Path(src).
		Detail("from", src).
		Detail("to", dst).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("mv %q to %q: %w", src, dst, err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Moved %s -> %s\n", src, dst)
	}
	return cmd.PrintJSON(mvResult{From: src, To: dst})
}
