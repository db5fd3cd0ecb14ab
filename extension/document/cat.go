// cat.go backs "patchd cat". On a terminal the markdown is rendered with
// glamour; piped or redirected output stays raw so the bytes round-trip.
// The -l range uses colon syntax (10:20) like sed address ranges.

package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/patchd/cmd"
	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/cat"
	"github.com/jpl-au/patchd/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newCatCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "cat <path>",
		Short: "Read a document",
		Long:  `Output the contents of a document to stdout.`,
		Args:  cobra.ExactArgs(1),
		RunE:  e.runCat,
	}
	c.Flags().IntP(extension.FlagVersion, "v", 0, "Read specific version")
	c.Flags().BoolP(extension.FlagDeleted, "D", false, "Read a deleted document")
	c.Flags().BoolP(extension.FlagNumber, "n", false, "Number all output lines")
	c.Flags().StringP(extension.FlagLines, "l", "", "Line range (e.g., 10:20, 5:, :15)")
	c.Flags().Bool(extension.FlagRaw, false, "Output raw markdown without rendering")
	return c
}

func (e *Extension) runCat(c *cobra.Command, args []string) error {
	ctx := c.Context()
	ver, _ := c.Flags().GetInt(extension.FlagVersion)
	del, _ := c.Flags().GetBool(extension.FlagDeleted)
	lineNums, _ := c.Flags().GetBool(extension.FlagNumber)
	lineRange, _ := c.Flags().GetString(extension.FlagLines)
	raw, _ := c.Flags().GetBool(extension.FlagRaw)

	opts := cat.Options{
		Version:        ver,
		IncludeDeleted: del,
		LineNumbers:    lineNums,
		MaxLineLength:  e.cfg.MaxLineLength(),
	}

	if lineRange != "" {
		start, end, err := parseLineRange(lineRange)
		if err != nil {
			return cmd.PrintJSONError(err)
		}
		opts.StartLine = start
		opts.EndLine = end
	}

	p := args[0]
	var result cat.Result
	var err error

	defer func() {
		b := log.Event("document:cat", "read").Author(cmd.Author()).Path(p)
		if result.Document != nil {
			b = b.Version(result.Document.Version)
		}
		b.Write(err)
	}()

	if cmd.JSON() {
		result, err = cat.Run(ctx, io.Discard, e.svc, p, opts)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("cat %q: %w", p, err))
		}
		return cmd.PrintJSON(result.Document.ToJSON(true))
	}

	if !raw && term.IsTerminal(int(os.Stdout.Fd())) {
		var buf bytes.Buffer
		result, err = cat.Run(ctx, &buf, e.svc, p, opts)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("cat %q: %w", p, err))
		}
		rendered, renderErr := glamour.Render(buf.String(), "dark")
		if renderErr == nil {
			fmt.Fprint(cmd.Out(), rendered)
			return nil
		}
		// Rendering failed; fall through and print raw below.
	}

	result, err = cat.Run(ctx, cmd.Out(), e.svc, p, opts)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("cat %q: %w", p, err))
	}
	return nil
}

// parseLineRange turns "10:20", "5:" or ":15" into 1-indexed start and end
// lines, 0 meaning open-ended.
func parseLineRange(s string) (start, end int, err error) {
	before, after, found := strings.Cut(s, ":")
	if !found {
		return 0, 0, fmt.Errorf("invalid line range %q: expected format START:END", s)
	}

	if before != "" {
		if _, err := fmt.Sscanf(before, "%d", &start); err != nil || start < 1 {
			return 0, 0, fmt.Errorf("invalid start line %q", before)
		}
	}
	if after != "" {
		if _, err := fmt.Sscanf(after, "%d", &end); err != nil || end < 1 {
			return 0, 0, fmt.Errorf("invalid end line %q", after)
		}
	}

	if start > 0 && end > 0 && start > end {
		return 0, 0, fmt.Errorf("start line %d is greater than end line %d", start, end)
	}

	return start, end, nil
}
