// glob.go backs "patchd glob", the path-only complement to grep: it
// matches patterns against document paths without ever loading content.

package search

import (
	"fmt"

	"github.com/jpl-au/patchd/cmd"
	"github.com/jpl-au/patchd/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newGlobCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "glob [pattern]",
		Short: "List document paths matching a pattern",
		Long: `List document paths matching a glob pattern.

Queries the database and returns matching document paths.
Use with 'patchd cat' to read document contents.

Supports glob patterns: *, **, ?

Examples:
  patchd glob              # All documents
  patchd glob "docs/*"     # Direct children of docs/
  patchd glob "docs/**"    # All under docs/
  patchd glob -j           # JSON output`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runGlob,
	}
}

func (e *Extension) runGlob(c *cobra.Command, args []string) error {
	ctx := c.Context()
	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}

	l := log.Event("search:glob", "list").
		Author(cmd.Author()).
		Detail("pattern", pattern)

	paths, err := e.svc.Glob(ctx, pattern)
	if err != nil {
		l.Write(err)
		return cmd.PrintJSONError(fmt.Errorf("glob %q: %w", pattern, err))
	}

	l.Detail("count", len(paths)).Write(nil)

	if cmd.JSON() {
		return cmd.PrintJSON(paths)
	}

	for _, p := range paths {
		fmt.Fprintln(cmd.Out(), p)
	}
	return nil
}
