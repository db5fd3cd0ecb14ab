// Package grep searches document content with regular expressions.
//
// It complements full-text search: find answers "which documents mention
// X?" through the FTS index, grep answers "which exact lines match this
// pattern?" with Unix grep semantics (-i, -v, -l, -c, -C). The line
// numbers it prints feed straight into cat -l and into patch anchors.
package grep

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/jpl-au/patchd/internal/service"
	"github.com/jpl-au/patchd/internal/store"
)

// Options configures a grep operation.
type Options struct {
	Path        string // Scope search to path prefix
	IncludeAll  bool   // Include deleted documents
	DeletedOnly bool   // Search only deleted documents
	PathsOnly   bool   // Only output paths (-l flag)
	IgnoreCase  bool   // Case insensitive search (-i flag)

	// Invert selects non-matching lines (-v), e.g. everything except
	// checklist items.
	Invert bool

	// Context prints N surrounding lines per match (-C). Enough context to
	// act on a match without reading the whole document.
	Context int

	// CountOnly prints one count per document (-c), cheap scope assessment
	// before reading anything.
	CountOnly bool

	// MaxLineLength caps the scanner's line buffer (0 = 10MB default).
	MaxLineLength int
}

// Match is one matching line within a document.
type Match struct {
	Line    int    // 1-indexed line number
	Content string // The matching line content
}

// DocMatch collects a document's matches.
type DocMatch struct {
	Document store.Document
	Matches  []Match
}

// Result contains the outcome of a grep operation.
type Result struct {
	Documents []store.Document // documents with at least one match
	Hits      []DocMatch       // per-line detail
}

// Run searches documents under the configured prefix for pattern and
// writes the selected output style to w.
func Run(ctx context.Context, w io.Writer, svc service.Service, pattern string, opts Options) (Result, error) {
	var result Result

	flags := ""
	if opts.IgnoreCase {
		flags = "(?i)"
	}
	re, err := regexp.Compile(flags + pattern)
	if err != nil {
		return result, fmt.Errorf("invalid regex: %w", err)
	}

	docs, err := svc.List(ctx, opts.Path, opts.IncludeAll, opts.DeletedOnly)
	if err != nil {
		return result, err
	}

	for _, doc := range docs {
		matches, err := matchLines(re, doc.Content, opts.Invert, opts.MaxLineLength)
		if err != nil {
			return result, fmt.Errorf("scanning %s: %w", doc.Path, err)
		}
		if len(matches) > 0 {
			result.Documents = append(result.Documents, doc)
			result.Hits = append(result.Hits, DocMatch{Document: doc, Matches: matches})
		}
	}

	switch {
	case opts.PathsOnly:
		for _, hit := range result.Hits {
			fmt.Fprintln(w, hit.Document.Path)
		}
	case opts.CountOnly:
		for _, hit := range result.Hits {
			fmt.Fprintf(w, "%s:%d\n", hit.Document.Path, len(hit.Matches))
		}
	case opts.Context > 0:
		for _, hit := range result.Hits {
			writeContext(w, hit, opts.Context)
		}
	default:
		for _, hit := range result.Hits {
			for _, m := range hit.Matches {
				fmt.Fprintf(w, "%s:%d:%s\n", hit.Document.Path, m.Line, m.Content)
			}
		}
	}

	return result, nil
}

// writeContext prints a document's matches with n lines around each, in
// grep's conventional framing: ":" joins path, line, and content on a
// matching line, "-" on a context line, and "--" separates groups that are
// not contiguous. Overlapping windows print each line once.
func writeContext(w io.Writer, hit DocMatch, n int) {
	lines := strings.Split(hit.Document.Content, "\n")
	printed := make(map[int]bool)
	needSep := false

	for _, m := range hit.Matches {
		start := m.Line - n - 1 // 0-indexed window start
		if start < 0 {
			start = 0
		}
		end := m.Line + n
		if end > len(lines) {
			end = len(lines)
		}

		if needSep && !printed[start] {
			fmt.Fprintln(w, "--")
		}

		for i := start; i < end; i++ {
			if printed[i] {
				continue
			}
			printed[i] = true
			lineNum := i + 1
			sep := "-"
			if lineNum == m.Line {
				sep = ":"
			}
			fmt.Fprintf(w, "%s%s%d%s%s\n", hit.Document.Path, sep, lineNum, sep, lines[i])
		}
		needSep = true
	}
}

// matchLines scans content line by line and collects the lines whose match
// state equals !invert. The scanner avoids materialising every line of
// documents that mostly will not match.
func matchLines(re *regexp.Regexp, content string, invert bool, maxLineLength int) ([]Match, error) {
	var matches []Match
	if maxLineLength <= 0 {
		maxLineLength = 10 * 1024 * 1024
	}
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if re.MatchString(line) != invert {
			matches = append(matches, Match{Line: lineNum, Content: line})
		}
	}
	if err := scanner.Err(); err != nil {
		return matches, err
	}
	return matches, nil
}
