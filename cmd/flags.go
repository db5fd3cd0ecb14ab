/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// flags.go holds the global flags and the accessors extensions read them
// through, so extension code never touches cobra internals or the
// package-level variables directly.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/patchd/internal/config"
	"github.com/spf13/cobra"
)

var validOutputFormats = []string{"json"}

var (
	output  string
	author  string
	message string
	force   bool
	db      string
	dir     string
)

// out is where command output goes. Tests swap it to capture output.
var out io.Writer = os.Stdout

// Out returns the output writer.
func Out() io.Writer { return out }

// Output returns the output format flag value.
func Output() string { return output }

// Author returns the author flag value.
func Author() string { return author }

// Message returns the message flag value.
func Message() string { return message }

// Force returns the force flag value.
func Force() bool { return force }

// DB returns the resolved database name: --db flag, then PATCHD_DB, then
// empty for the default database.
func DB() string {
	if db != "" {
		return db
	}
	return os.Getenv("PATCHD_DB")
}

// Dir returns the explicit database directory: --dir flag, then
// PATCHD_DIR, then empty to use walk-up discovery.
func Dir() string {
	if dir != "" {
		return dir
	}
	return os.Getenv("PATCHD_DIR")
}

// SetOut sets the output writer (for testing).
func SetOut(w io.Writer) { out = w }

// JSON returns true if JSON output is requested.
func JSON() bool { return output == "json" }

// PrintJSON marshals v and writes it to the output writer. A no-op when
// the output format is not JSON.
func PrintJSON(v any) error {
	if output != "json" {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(out, string(b))
	return nil
}

// PrintJSONError prints an error as JSON when that format is active and
// returns nil, suppressing cobra's own error print. Otherwise it returns
// the error unchanged.
func PrintJSONError(err error) error {
	if output != "json" || err == nil {
		return err
	}
	// If the error itself cannot be printed there is nothing left to do
	// with it.
	_ = PrintJSON(map[string]string{"error": err.Error()})
	return nil
}

// detectAuthor resolves the default author from config. Empty when no
// author is configured.
func detectAuthor() string {
	if cfg, err := config.Load(); err == nil && cfg.Author.Name != "" {
		return cfg.Author.Name
	}
	return ""
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format: json")
	rootCmd.PersistentFlags().StringVarP(&author, "author", "a", "", "Version attribution")
	rootCmd.PersistentFlags().StringVarP(&message, "message", "m", "", "Version message")
	rootCmd.PersistentFlags().BoolVar(&force, "force", false, "Skip confirmations")
	rootCmd.PersistentFlags().StringVar(&db, "db", "", "Database name (e.g., docs for patchd-docs.db)")
	rootCmd.PersistentFlags().StringVar(&dir, "dir", "", "Database directory (skip discovery, use explicit path)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return validOutputFormats, cobra.ShellCompDirectiveNoFileComp
	})
}
