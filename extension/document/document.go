// Package document registers the core document commands: cat, ls, write,
// rm, restore, revert, mv, history and diff. The commands keep Unix
// filesystem semantics so both people and agents can lean on habits they
// already have. Each command lives in its own file with its flags and
// output handling.
package document

import (
	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/config"
	"github.com/jpl-au/patchd/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the document extension.
type Extension struct {
	svc service.Service
	cfg *config.Config
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

func (e *Extension) Name() string { return "document" }

// Init picks up the shared service and config from the extension context.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	e.cfg = ctx.Config()
	return nil
}

func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newCatCmd(),
		e.newLsCmd(),
		e.newWriteCmd(),
		e.newRmCmd(),
		e.newRestoreCmd(),
		e.newRevertCmd(),
		e.newMvCmd(),
		e.newHistoryCmd(),
		e.newDiffCmd(),
	}
}

// MCPTools returns nil; the document MCP tools live in internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}
