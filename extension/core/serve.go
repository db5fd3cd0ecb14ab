// serve.go backs "patchd serve". Unlike the other commands it blocks for
// the life of the MCP session and owns its database connection, so it is
// listed in NoStoreCommands rather than using the shared service.

package core

import (
	"github.com/jpl-au/patchd/cmd"
	"github.com/jpl-au/patchd/internal/mcp"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start MCP server",
		Long: `Start an MCP (Model Context Protocol) server over stdio for LLM integration.

Use --db to serve a specific database:
  patchd serve --db docs    # serve patchd-docs.db`,
		RunE: runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	return mcp.Serve(cmd.DB())
}
