// Package cat reads a document, optionally restricted to a line range.
//
// Line ranges pair with grep: grep reports the line number of a match, cat
// with -l reads just the surrounding section, and the resulting excerpt is
// what an LLM patches. Reading the whole document is the fast path.
package cat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jpl-au/patchd/internal/service"
	"github.com/jpl-au/patchd/internal/store"
)

// minLineNumWidth keeps the number gutter stable for documents under a
// million lines.
const minLineNumWidth = 6

// Options configures a cat operation.
type Options struct {
	Version        int  // Specific version to read (0 = latest)
	IncludeDeleted bool // Allow reading deleted documents
	LineNumbers    bool // Show line numbers (-n flag)

	// StartLine and EndLine bound the output (1-indexed, 0 = unbounded).
	// They let a caller pull one section of a large document instead of
	// spending context on all of it.
	StartLine int
	EndLine   int

	// MaxLineLength caps the scanner's line buffer (0 = 10MB default).
	// Minified JS and single-line JSON need more than the 64KB default.
	MaxLineLength int
}

// Result contains the outcome of a cat operation.
type Result struct {
	Document *store.Document
}

// Run reads a document and writes its content to w.
func Run(ctx context.Context, w io.Writer, svc service.Service, path string, opts Options) (Result, error) {
	var result Result
	var doc *store.Document
	var err error

	if opts.Version > 0 {
		doc, err = svc.Version(ctx, path, opts.Version)
	} else {
		// The argument may be a path or a key.
		doc, _, err = svc.Resolve(ctx, path, opts.IncludeDeleted)
	}
	if err != nil {
		return result, err
	}

	result.Document = doc

	// Whole document, no numbering: emit the content untouched.
	if opts.StartLine == 0 && opts.EndLine == 0 && !opts.LineNumbers {
		fmt.Fprint(w, doc.Content)
		return result, nil
	}

	return result, writeRange(w, doc.Content, opts)
}

// writeRange streams the selected lines to w, numbering them if asked.
// A bufio.Scanner walks the content so skipped lines are never copied.
func writeRange(w io.Writer, content string, opts Options) error {
	totalLines := strings.Count(content, "\n") + 1
	hasTrailingNewline := strings.HasSuffix(content, "\n")
	if hasTrailingNewline {
		totalLines--
	}

	start := 1
	end := totalLines
	if opts.StartLine > 0 {
		start = opts.StartLine
	}
	if opts.EndLine > 0 && opts.EndLine < end {
		end = opts.EndLine
	}

	// The gutter is sized for the largest number that will print.
	lineNumWidth := len(strconv.Itoa(end))
	if lineNumWidth < minLineNumWidth {
		lineNumWidth = minLineNumWidth
	}

	maxLine := opts.MaxLineLength
	if maxLine <= 0 {
		maxLine = 10 * 1024 * 1024
	}
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum < start {
			continue
		}
		if lineNum > end {
			break
		}

		line := scanner.Text()
		if opts.LineNumbers {
			fmt.Fprintf(w, "%*d\t%s", lineNumWidth, lineNum, line)
		} else {
			fmt.Fprint(w, line)
		}

		// A newline follows every line except the last, which keeps one
		// only if the original content ended with one.
		if lineNum < end || hasTrailingNewline {
			fmt.Fprintln(w)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading content: %w", err)
	}
	return nil
}
