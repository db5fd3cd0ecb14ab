// init.go backs "patchd init". It runs before any store exists and
// creates the first database; configuration is left to "patchd config",
// the same split git makes between init and config.

package core

import (
	"fmt"

	"github.com/jpl-au/patchd/cmd"
	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/document"
	"github.com/jpl-au/patchd/internal/log"
	"github.com/jpl-au/patchd/internal/repo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "init",
		Short: "Initialise a new patchd store",
		Long: `Creates a .patchd/patchd.db database in the current directory.

Use --db to create additional databases:
  patchd init --db docs    # creates .patchd/patchd-docs.db

Use --dir to create in a different directory:
  patchd init --dir /path/to/project    # creates /path/to/project/.patchd/patchd.db

Use --local to exclude from git:
  patchd init --db notes --local    # creates patchd-notes.db, not committed

Note: init does not create config. Use "patchd config" to set up configuration.`,
		RunE: runInit,
	}
	c.Flags().BoolP(extension.FlagLocal, "l", false, "Mark database as local (gitignored)")
	return c
}

func runInit(c *cobra.Command, _ []string) error {
	local, _ := c.Flags().GetBool(extension.FlagLocal)
	db, dir := cmd.DB(), cmd.Dir()

	// --local edits this project's .gitignore while --dir puts the
	// database in some other directory; combining them would gitignore a
	// file that is not here.
	if local && dir != "" {
		return cmd.PrintJSONError(fmt.Errorf("cannot use --local with --dir: --local modifies the current project's .gitignore, but --dir creates the database elsewhere"))
	}

	err := document.Init(cmd.Force(), db, local, dir)

	log.Event("core:init", "init").
		Author(cmd.Author()).
		Detail("db", db).
		Detail("dir", dir).
		Detail("local", local).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("init: %w", err))
	}

	dbFile := repo.DBFileName(db)
	loc := ".patchd/" + dbFile
	if dir != "" {
		loc = dir + "/.patchd/" + dbFile
	}
	fmt.Fprintf(cmd.Out(), "Initialised patchd store in %s\n", loc)
	return nil
}
