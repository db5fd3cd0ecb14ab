/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// root.go wires the root command. Store initialisation happens lazily in
// PersistentPreRunE so bootstrap commands (init, guide, config) run before
// any store exists; noStoreCommands controls which commands skip it.

package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/jpl-au/patchd/internal/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "patchd",
	Short: "Versioned document store with batch patching for LLM workflows",
	Long:  `A versioned document store edited through batches of search/replace patches, with filesystem-like commands (ls, cat, rm, mv), full-text search, and LLM integration.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if output != "" && !slices.Contains(validOutputFormats, output) {
			return fmt.Errorf("invalid output format: %s (valid: %v)", output, validOutputFormats)
		}

		if author == "" {
			author = detectAuthor()
		}

		// Mutations need an attributable author; fail early with the fix.
		cmdName := topLevelCmdName(cmd)
		if authorRequiredCommands[cmdName] && author == "" {
			return fmt.Errorf("author not configured (checked .patchd/config.yaml and ~/.patchd/config.yaml)\n\nRun: patchd config author.name \"Your Name\"\n\nSee 'patchd guide config' for local vs global options.")
		}

		if !noStoreCommands[cmdName] {
			if err := initExtensions(); err != nil {
				if JSON() {
					_ = PrintJSON(map[string]string{"error": err.Error()})
					cmd.SilenceErrors = true
					cmd.SilenceUsage = true
				}
				return fmt.Errorf("initialise extensions: %w", err)
			}
		}

		return nil
	},
}

// topLevelCmdName walks up to the direct child of root: "cat" for
// "patchd cat docs/readme", "db" for "patchd db info".
func topLevelCmdName(cmd *cobra.Command) string {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// Execute runs the root command: opens the audit log, registers
// extensions, and closes the shared service on the way out. Exits 1 on
// command error.
func Execute() {
	// A broken audit log should never block the command itself.
	if err := log.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
	}
	defer log.Close()

	registerExtensions()
	err := rootCmd.Execute()

	if extService != nil {
		if closeErr := extService.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: closing service: %v\n", closeErr)
		}
	}

	if err != nil {
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing and extension access.
func RootCmd() *cobra.Command {
	return rootCmd
}
