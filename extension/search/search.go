// Package search registers the discovery commands, grep and glob. Regex
// and path patterns live here on the CLI; FTS5 full-text search is
// exposed through the MCP server instead.
package search

import (
	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/config"
	"github.com/jpl-au/patchd/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the search extension.
type Extension struct {
	svc service.Service
	cfg *config.Config
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

func (e *Extension) Name() string { return "search" }

func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	e.cfg = ctx.Config()
	return nil
}

func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newGrepCmd(),
		e.newGlobCmd(),
	}
}

// MCPTools returns nil; the MCP search tools live in internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}
