/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/
package main

import (
	"github.com/jpl-au/patchd/cmd"

	// Extensions register themselves via init().
	_ "github.com/jpl-au/patchd/extension/all"
)

func main() {
	cmd.Execute()
}
