// Package extension is patchd's plugin seam. An extension bundles a
// related set of CLI commands and MCP tools and registers itself at init
// time, so features plug in without the core knowing their names.
package extension

import (
	"time"

	"github.com/spf13/cobra"
)

// Extension is the contract every patchd extension satisfies.
type Extension interface {
	// Name returns a unique identifier for this extension.
	Name() string

	// Commands returns CLI commands to register with the root command.
	Commands() []*cobra.Command

	// MCPTools returns MCP tools to register with the server.
	MCPTools() []MCPTool
}

// Initializable extensions get a Context before their first command runs,
// for setup such as table migrations.
type Initializable interface {
	Extension
	Init(ctx Context) error
}

// Storeless marks commands that run without store initialisation:
// bootstrap commands like init that run before a store exists, commands
// that own their service lifecycle, and utilities that never touch
// documents.
type Storeless interface {
	NoStoreCommands() []string
}

// Vacuumable lets an extension with custom tables join the vacuum pass.
// Vacuum permanently removes the extension's soft-deleted rows older than
// olderThan (nil means all of them) and returns how many went.
type Vacuumable interface {
	Extension
	Vacuum(ctx Context, olderThan *time.Duration) (int64, error)
}
