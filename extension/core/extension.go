// Package core registers the repository-level commands: init, config,
// serve, guide, vacuum, llm, db and version. None of them operate on an
// individual document.
package core

import (
	"github.com/jpl-au/patchd/extension"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the core extension.
type Extension struct{}

var (
	_ extension.Extension = (*Extension)(nil)
	_ extension.Storeless = (*Extension)(nil)
)

func (e *Extension) Name() string { return "core" }

func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		newInitCmd(),
		newConfigCmd(),
		newServeCmd(),
		newGuideCmd(),
		newVacuumCmd(),
		newLlmCmd(),
		newDBCmd(),
		newVersionCmd(),
	}
}

// MCPTools returns nil; the core commands have no MCP equivalents.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// NoStoreCommands lists the commands that must run without the shared
// store: serve opens its own connection for the server's lifetime, vacuum
// supports --dry-run before any store exists, and db and version never
// touch a database at all.
func (e *Extension) NoStoreCommands() []string {
	return []string{"serve", "vacuum", "db", "version"}
}
