/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// init_extensions.go wires registered extensions into the root command:
// command registration at startup, then service creation and context
// injection on first use.

package cmd

import (
	"fmt"
	"sync"

	"github.com/jpl-au/patchd/extension"
	"github.com/jpl-au/patchd/internal/config"
	"github.com/jpl-au/patchd/internal/document"
	"github.com/jpl-au/patchd/internal/log"
)

// noStoreCommands names commands that run without opening the store.
// Built from the bootstrap set plus extension-declared storeless commands.
var noStoreCommands map[string]bool

// authorRequiredCommands names commands that mutate document data and so
// need an attributable author.
var authorRequiredCommands = map[string]bool{
	"write":   true,
	"apply":   true,
	"rm":      true,
	"mv":      true,
	"revert":  true,
	"restore": true,
	"import":  true,
	"sync":    true,
	"vacuum":  true,
}

// buildNoStoreCommands collects the commands that skip store
// initialisation. The bootstrap commands must work before "patchd init"
// has ever run; extensions add their own via extension.Storeless.
func buildNoStoreCommands() map[string]bool {
	cmds := map[string]bool{
		"init":   true,
		"guide":  true,
		"config": true,
		"llm":    true,
	}

	for _, ext := range extension.All() {
		if s, ok := ext.(extension.Storeless); ok {
			for _, name := range s.NoStoreCommands() {
				cmds[name] = true
			}
		}
	}

	return cmds
}

var (
	extContext extension.Context
	extService *document.Service
	initOnce   sync.Once
	initErr    error
)

// initExtensions opens the document service once per process and hands the
// shared context to every Initializable extension.
func initExtensions() error {
	initOnce.Do(func() {
		svc, err := document.New(DB())
		if err != nil {
			initErr = fmt.Errorf("opening database: %w", err)
			return
		}
		extService = svc

		// Project identifier for audit logging.
		log.SetProject(svc.FilesDir())

		cfg, err := config.Load()
		if err != nil {
			initErr = err
			return
		}
		extContext = extension.NewContext(svc, svc.DB(), cfg)

		for _, ext := range extension.All() {
			if init, ok := ext.(extension.Initializable); ok {
				if err := init.Init(extContext); err != nil {
					initErr = fmt.Errorf("init extension %s: %w", ext.Name(), err)
					return
				}
			}
		}
	})
	return initErr
}

var extensionsOnce sync.Once

// registerExtensions adds every extension's commands to the root command.
// Runs once before Execute.
func registerExtensions() {
	extensionsOnce.Do(func() {
		for _, ext := range extension.All() {
			for _, cmd := range ext.Commands() {
				rootCmd.AddCommand(cmd)
			}
		}

		noStoreCommands = buildNoStoreCommands()
	})
}
