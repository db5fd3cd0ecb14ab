// diff.go backs "patchd diff". Three comparison shapes share the one
// command: version against version within a document, document against
// another document, and a filesystem file against a stored document. The
// output is unified diff either way.

package document

import (
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/patchd/cmd"
	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/diff"
	"github.com/jpl-au/patchd/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newDiffCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "diff <path|key> [doc-path]",
		Short: "Show differences between document versions",
		Long: `Show differences between document versions or two documents.

Examples:
  patchd diff docs/readme              # Compare latest with previous version
  patchd diff docs/readme -v 3:5       # Compare version 3 with version 5
  patchd diff docs/readme docs/other   # Compare two different documents
  patchd diff -f ./local.md docs/readme    # Compare filesystem file with stored document`,
		Args: cobra.RangeArgs(1, 2),
		RunE: e.runDiff,
	}
	c.Flags().StringP(extension.FlagVersions, "v", "", "Version range (e.g., 3:5)")
	c.Flags().BoolP(extension.FlagDeleted, "D", false, "Allow diffing deleted documents")
	c.Flags().BoolP(extension.FlagFile, "f", false, "Treat first path as filesystem file")
	c.Flags().Bool(extension.FlagRaw, false, "Output without colour")
	return c
}

func (e *Extension) runDiff(c *cobra.Command, args []string) error {
	verRange, _ := c.Flags().GetString(extension.FlagVersions)
	del, _ := c.Flags().GetBool(extension.FlagDeleted)
	isFile, _ := c.Flags().GetBool(extension.FlagFile)
	raw, _ := c.Flags().GetBool(extension.FlagRaw)
	path := args[0]

	var opts diff.Options
	var err error
	opts.IncludeDeleted = del

	if verRange != "" {
		opts.Version1, opts.Version2, err = diff.ParseVersionRange(verRange)
		if err != nil {
			return cmd.PrintJSONError(err)
		}
	}

	if len(args) == 2 {
		opts.Path2 = args[1]
	}

	if isFile {
		if opts.Path2 == "" {
			return cmd.PrintJSONError(fmt.Errorf("-f/--file requires two arguments: patchd diff -f <file> <doc-path>"))
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("reading file %s: %w", path, err))
		}
		opts.FileContent = string(b)
	}

	ctx := c.Context()

	// Log the resolved document path when the argument was a key. With -f
	// the first argument is a filesystem file, not a document, so it logs
	// as given.
	logPath := path
	if !isFile {
		if doc, _, resolveErr := e.svc.Resolve(ctx, path, del); resolveErr == nil {
			logPath = doc.Path
		}
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}
	r, err := diff.Run(ctx, w, e.svc, path, opts, !raw)

	log.Event("document:diff", "diff").
		Author(cmd.Author()).
		Path(logPath).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("diff %q: %w", path, err))
	}

	return cmd.PrintJSON(map[string]string{
		"old":  r.Old,
		"new":  r.New,
		"diff": r.Format(false),
	})
}
