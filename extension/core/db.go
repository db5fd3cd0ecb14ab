// db.go backs "patchd db": listing a repository's databases and flipping
// each between local (gitignored) and shared (committed). It only edits
// gitignore entries, never opens the databases, so it keeps working when
// a database is locked or corrupt.

package core

import (
	"fmt"
	"path/filepath"

	"github.com/jpl-au/patchd/cmd"
	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/log"
	"github.com/jpl-au/patchd/internal/repo"
	"github.com/spf13/cobra"
)

func newDBCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "db [name]",
		Short: "List or manage databases",
		Long: `List databases or change their local/shared status.

  patchd db                    # list all databases
  patchd db --local            # mark default database as local
  patchd db notes --local      # mark notes database as local
  patchd db notes --share      # mark as shared
  patchd db --dir /path        # list databases in external directory

Local databases are not committed. Shared databases are.
If no name is given with --local or --share, operates on the default database.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDB,
	}
	c.Flags().BoolP(extension.FlagLocal, "l", false, "Mark database as local")
	c.Flags().BoolP(extension.FlagShare, "s", false, "Mark database as shared")
	c.MarkFlagsMutuallyExclusive(extension.FlagLocal, extension.FlagShare)
	return c
}

func runDB(c *cobra.Command, args []string) error {
	local, _ := c.Flags().GetBool(extension.FlagLocal)
	share, _ := c.Flags().GetBool(extension.FlagShare)

	// Without --dir the nearest .patchd directory is discovered by walking
	// up; with it, an external project's repository can be managed
	// directly. The repo functions want the .patchd path itself, not the
	// project root.
	dir := cmd.Dir()
	patchdDir := ""
	if dir != "" {
		patchdDir = filepath.Join(dir, repo.Dir)
	}

	if len(args) == 0 && !local && !share {
		err := listDBs(patchdDir)

		log.Event("core:db", "list").
			Author(cmd.Author()).
			Detail("dir", dir).
			Write(err)

		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("db list: %w", err))
		}
		return nil
	}

	// Empty name means the default database.
	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	if local {
		err := repo.IgnoreDB(name, patchdDir)

		log.Event("core:db", "ignore").
			Author(cmd.Author()).
			Detail("db", name).
			Detail("dir", dir).
			Write(err)

		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("db ignore %q: %w", name, err))
		}
		fmt.Fprintf(cmd.Out(), "%s marked as local\n", repo.DBFileName(name))
		return nil
	}

	if share {
		err := repo.UnignoreDB(name, patchdDir)

		log.Event("core:db", "unignore").
			Author(cmd.Author()).
			Detail("db", name).
			Detail("dir", dir).
			Write(err)

		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("db unignore %q: %w", name, err))
		}
		fmt.Fprintf(cmd.Out(), "%s marked as shared\n", repo.DBFileName(name))
		return nil
	}

	// A bare name shows that database's status.
	ignored, err := repo.IsIgnored(name, patchdDir)

	log.Event("core:db", "status").
		Author(cmd.Author()).
		Detail("db", name).
		Detail("dir", dir).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("db status %q: %w", name, err))
	}
	status := "shared"
	if ignored {
		status = "local"
	}
	fmt.Fprintf(cmd.Out(), "%s: %s\n", repo.DBFileName(name), status)
	return nil
}

func listDBs(dir string) error {
	dbs, err := repo.ListDBs(dir)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("list databases: %w", err))
	}

	if len(dbs) == 0 {
		fmt.Fprintln(cmd.Out(), "No databases found")
		return nil
	}

	for _, db := range dbs {
		status := "shared"
		if db.Local {
			status = "local"
		}
		fmt.Fprintf(cmd.Out(), "%s  %s\n", db.File, status)
	}
	return nil
}
