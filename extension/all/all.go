// Package all pulls in every built-in extension. main imports it for the
// registration side effects.
package all

import (
	_ "github.com/jpl-au/patchd/extension/core"
	_ "github.com/jpl-au/patchd/extension/document"
	_ "github.com/jpl-au/patchd/extension/patch"
	_ "github.com/jpl-au/patchd/extension/search"
	_ "github.com/jpl-au/patchd/extension/sync"
)
