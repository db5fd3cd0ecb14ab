// flags.go names every CLI flag once. Flag names appear twice per flag,
// at definition and at Get, and a constant makes a typo a compile error
// instead of a silently missing flag.

package extension

const (
	// Boolean flags

	FlagAll            = "all"                // Include all items (including deleted)
	FlagCount          = "count"              // Output count only
	FlagDeleted        = "deleted"            // Include/show deleted items
	FlagDiff           = "diff"               // Show diff output
	FlagDryRun         = "dry-run"            // Preview without making changes
	FlagFile           = "file"               // Treat path as filesystem file
	FlagFilesWithMatch = "files-with-matches" // Output matching file paths only
	FlagFlat           = "flat"               // Flatten directory structure
	FlagIgnoreCase     = "ignore-case"        // Case-insensitive matching
	FlagIncludeHidden  = "include-hidden"     // Include hidden files/directories
	FlagInvertMatch    = "invert-match"       // Invert match selection
	FlagLocal          = "local"              // Use local scope (gitignored)
	FlagLong           = "long"               // Long format output
	FlagNumber         = "number"             // Number output lines
	FlagRaw            = "raw"                // Raw output without formatting
	FlagRecursive      = "recursive"          // Recursive operation
	FlagReverse        = "reverse"            // Reverse sort order
	FlagShare          = "share"              // Mark as shared (committed)
	FlagStrict         = "strict"             // Fail the batch if any edit is unapplied
	FlagTree           = "tree"               // Tree view output
	FlagWatch          = "watch"              // Watch filesystem and sync continuously

	// String flags

	FlagKey         = "key"         // Version key (8-char identifier)
	FlagLines       = "lines"       // Line range specification (e.g., "10:20")
	FlagOlderThan   = "older-than"  // Duration threshold
	FlagOriginal    = "original"    // Text to find for a single-edit batch
	FlagPath        = "path"        // Path prefix filter
	FlagReplacement = "replacement" // Replacement text for a single-edit batch
	FlagSort        = "sort"        // Sort field
	FlagTo          = "to"          // Target path prefix
	FlagVersions    = "versions"    // Version range (e.g., "3:5")

	// Integer flags

	FlagContext = "context" // Context lines around matches
	FlagLimit   = "limit"   // Limit number of results
	FlagPasses  = "passes"  // Maximum patch engine passes
	FlagVersion = "version" // Specific version number
)
