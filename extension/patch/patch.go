// Package patch provides the patch extension for batch document editing.
// Registers commands: apply, preview, batches.
//
// These commands wrap the batch patch engine: apply mutates a document and
// records the outcome, preview shows what an apply would do without writing,
// and batches lists the audit trail of past applies. Each command file is
// separated to isolate its flag handling and output formatting.

package patch

import (
	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/config"
	"github.com/jpl-au/patchd/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the patch extension.
type Extension struct {
	svc service.Service
	cfg *config.Config
}

// Compile-time interface compliance. Catches missing methods at build time
// rather than runtime, making interface changes safer to refactor.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "patch" - this extension handles batch editing operations.
func (e *Extension) Name() string { return "patch" }

// Init connects to the shared service for patch operations.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	e.cfg = ctx.Config()
	return nil
}

// Commands returns batch editing commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newApplyCmd(),
		e.newPreviewCmd(),
		e.newBatchesCmd(),
	}
}

// MCPTools returns nil - patch MCP tools are provided by internal/mcp package.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}
