// Package sync registers the import, export, and sync commands and
// keeps the filesystem mirror under .patchd/ in step with the store.
// When sync.files is enabled, every committed mutation reaches the
// mirror as a file write, rename, or removal via document events.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/jpl-au/patchd/cmd"
	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/document"
	"github.com/jpl-au/patchd/internal/exporter"
	"github.com/jpl-au/patchd/internal/importer"
	"github.com/jpl-au/patchd/internal/log"
	"github.com/jpl-au/patchd/internal/sync"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension carries the sync command set. Not Initializable: import
// --dry-run must work without a store, so commands open the service
// themselves.
type Extension struct{}

var (
	_ extension.Extension    = (*Extension)(nil)
	_ extension.Storeless    = (*Extension)(nil)
	_ extension.EventHandler = (*Extension)(nil)
)

func (e *Extension) Name() string { return "sync" }

func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		newImportCmd(),
		newExportCmd(),
		newSyncCmd(),
	}
}

// The MCP import/export tools live in internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// NoStoreCommands lists the commands that open the service themselves.
func (e *Extension) NoStoreCommands() []string {
	return []string{"import", "export", "sync"}
}

// HandleEvent maintains the filesystem mirror from document events. Each
// event carries the committed content, so the mirror is written without
// re-reading the store. Returned errors are logged by the service, never
// surfaced to the caller - the mirror is derived state and can be rebuilt
// with export at any time.
//
// SyncEnabled is checked per event rather than once, because config can be
// reloaded mid-process (config_set over MCP).
func (e *Extension) HandleEvent(ctx extension.Context, ev extension.Event) error {
	svc := ctx.Service()
	if !svc.SyncEnabled() {
		return nil
	}
	dir := svc.FilesDir()

	switch ev := ev.(type) {
	case extension.DocumentWriteEvent:
		return sync.WriteFile(dir, ev.Path, ev.Content)
	case extension.PatchApplyEvent:
		if ev.Version == 0 {
			return nil // nothing applied, mirror already current
		}
		return sync.WriteFile(dir, ev.Path, ev.Content)
	case extension.DocumentRestoreEvent:
		return sync.WriteFile(dir, ev.Path, ev.Content)
	case extension.DocumentDeleteEvent:
		if ev.Remaining {
			return sync.WriteFile(dir, ev.Path, ev.Content)
		}
		return sync.RemoveFile(dir, ev.Path)
	case extension.DocumentMoveEvent:
		return sync.MoveFile(dir, ev.From, ev.To)
	}
	return nil
}

// --- import command ---

func newImportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "import <filesystem-path>",
		Short: "Bulk import markdown files from filesystem",
		Long: `Bulk import markdown files from filesystem into the store.

Recursively scans for .md files and imports them.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
	c.Flags().StringP(extension.FlagTo, "t", "", "Target path prefix")
	c.Flags().BoolP(extension.FlagFlat, "F", false, "Flatten directory structure")
	c.Flags().BoolP(extension.FlagDryRun, "n", false, "Show what would be imported")
	c.Flags().BoolP(extension.FlagIncludeHidden, "H", false, "Include hidden files/dirs")
	return c
}

func runImport(c *cobra.Command, args []string) error {
	var ctx context.Context = c.Context()
	src := args[0]
	opts := importer.Options{
		Author: cmd.Author(),
		Msg:    cmd.Message(),
	}
	opts.Prefix, _ = c.Flags().GetString(extension.FlagTo)
	opts.Flat, _ = c.Flags().GetBool(extension.FlagFlat)
	opts.DryRun, _ = c.Flags().GetBool(extension.FlagDryRun)
	opts.Hidden, _ = c.Flags().GetBool(extension.FlagIncludeHidden)

	var svc *document.Service
	var err error
	if !opts.DryRun {
		svc, err = document.New(cmd.DB())
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("open store: %w", err))
		}
		defer svc.Close()
	}

	result, err := importer.Run(ctx, cmd.Out(), svc, src, opts)

	log.Event("sync:import", "import").
		Author(cmd.Author()).
		Detail("source", src).
		Detail("count", result.Imported).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("import %q: %w", src, err))
	}

	if len(result.Paths) == 0 {
		fmt.Fprintf(cmd.Out(), "No markdown files found in %q (expected .md files)\n", src)
		return nil
	}

	if !opts.DryRun {
		fmt.Fprintf(cmd.Out(), "\nImported %d file(s)\n", result.Imported)
	}
	return nil
}

// --- export command ---

func newExportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "export <doc-path> <filesystem-path>",
		Short: "Export documents from store to filesystem",
		Long: `Export documents from the store to filesystem.

Single document: destination can be a file path
Multiple documents (prefix): destination must be a directory`,
		Args: cobra.ExactArgs(2),
		RunE: runExport,
	}
	c.Flags().IntP(extension.FlagVersion, "v", 0, "Export specific version")
	c.Flags().StringP(extension.FlagKey, "k", "", "Export by version key (8-char identifier)")
	return c
}

func runExport(c *cobra.Command, args []string) error {
	ctx := c.Context()
	docPath, dest := args[0], args[1]
	svc, err := document.New(cmd.DB())
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("open store: %w", err))
	}
	defer svc.Close()

	opts := exporter.Options{
		Force: cmd.Force(),
	}
	opts.Version, _ = c.Flags().GetInt(extension.FlagVersion)
	keyFlag, _ := c.Flags().GetString(extension.FlagKey)

	key := ""
	if keyFlag != "" {
		// Explicit key provided via --key flag
		doc, err := svc.ByKey(ctx, keyFlag)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("key %q: %w", keyFlag, err))
		}
		key = keyFlag
		docPath = doc.Path
		opts.Version = doc.Version
	} else if opts.Version == 0 {
		// No version specified - try to resolve as path or key
		doc, isKey, err := svc.Resolve(ctx, docPath, false)
		if err == nil && isKey {
			key = docPath
			docPath = doc.Path
			opts.Version = doc.Version
		}
		// If err or resolved as path, let exporter.Run handle it
	}

	result, err := exporter.Run(ctx, cmd.Out(), svc, docPath, dest, opts)

	logEvent := log.Event("sync:export", "export").
		Author(cmd.Author()).
		Path(docPath).
		Detail("dest", dest).
		Detail("count", result.Exported)
	if key != "" {
		logEvent.Detail("key", key)
	}
	logEvent.Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("export %q to %q: %w", docPath, dest, err))
	}

	if result.Exported > 1 {
		fmt.Fprintf(cmd.Out(), "\nExported %d file(s)\n", result.Exported)
	} else if key != "" && result.Exported == 1 {
		fmt.Fprintf(cmd.Out(), "(from key %s)\n", key)
	}
	return nil
}

// --- sync command ---

func newSyncCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "sync",
		Short: "Sync filesystem changes back to database",
		Long: `Detect mirror files that were modified directly under .patchd/ and import
those changes back into the database.

This is a recovery mechanism for when files are edited directly
(bypassing patchd commands). With --watch, keeps running and syncs each
time files change.`,
		RunE: runSync,
	}
	c.Flags().BoolP(extension.FlagDryRun, "n", false, "Show what would be synced")
	c.Flags().BoolP(extension.FlagWatch, "w", false, "Watch for changes and sync continuously")
	return c
}

func runSync(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	svc, err := document.New(cmd.DB())
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("open store: %w", err))
	}
	defer svc.Close()

	dir := svc.FilesDir()
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(cmd.Out(), "No files directory found")
		return nil
	}

	opts := sync.Options{
		Author: cmd.Author(),
		Msg:    cmd.Message(),
	}
	opts.DryRun, _ = c.Flags().GetBool(extension.FlagDryRun)

	if watch, _ := c.Flags().GetBool(extension.FlagWatch); watch {
		return runWatch(ctx, svc, dir, opts)
	}

	docs, err := svc.List(ctx, "", false, false)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("list documents: %w", err))
	}

	db := make(map[string]string, len(docs))
	for _, d := range docs {
		db[d.Path] = d.Content
	}

	result, err := sync.Run(ctx, cmd.Out(), svc, dir, db, opts)

	log.Event("sync:sync", "sync").
		Author(cmd.Author()).
		Detail("added", result.Added).
		Detail("updated", result.Updated).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("sync: %w", err))
	}

	total := result.Updated + result.Added
	if total == 0 {
		fmt.Fprintln(cmd.Out(), "No changes detected")
		return nil
	}

	if !opts.DryRun {
		fmt.Fprintf(cmd.Out(), "\nSynced %d file(s)\n", total)
	}
	return nil
}

// runWatch runs the continuous sync loop until interrupted.
func runWatch(ctx context.Context, svc *document.Service, dir string, opts sync.Options) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := sync.Watch(ctx, cmd.Out(), svc, dir, opts)

	log.Event("sync:watch", "sync").
		Author(opts.Author).
		Detail("dir", dir).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("watch: %w", err))
	}
	return nil
}
