// write.go backs "patchd write", the full-content counterpart to the
// patch command. Content comes from the second argument, from -f, or from
// stdin, in that order, so one command serves both quick one-liners and
// piped input.

package document

import (
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/patchd/cmd"
	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/log"
	"github.com/spf13/cobra"
)

type writeResult struct {
	Path string `json:"path"`
}

func (e *Extension) newWriteCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "write <path> [content]",
		Short: "Write a document",
		Long:  `Create or update a document. Content from argument, stdin, or -f flag.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE:  e.runWrite,
	}
	c.Flags().StringP(extension.FlagFile, "f", "", "Read content from file")
	return c
}

func (e *Extension) runWrite(c *cobra.Command, args []string) error {
	ctx := c.Context()
	p := args[0]
	var content string

	file, _ := c.Flags().GetString(extension.FlagFile)
	switch {
	case len(args) >= 2:
		content = args[1]
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("read file %q: %w", file, err))
		}
		content = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("read stdin: %w", err))
		}
		content = string(data)
	}

	err := e.svc.Write(ctx, p, content, cmd.Author(), cmd.Message())

	log.Event("document:write", "write").
		Author(cmd.Author()).
		Path(p).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("write %q: %w", p, err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Wrote %s\n", p)
	}
	return cmd.PrintJSON(writeResult{Path: p})
}
