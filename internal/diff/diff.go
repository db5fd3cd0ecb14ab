// Package diff computes and renders the differences between document
// versions. The same rendering backs the diff command, apply --dry-run
// previews, and revert confirmation output.
package diff

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines bounds the unchanged lines shown around each change. Equal
// runs longer than twice this collapse to "...".
const contextLines = 3

// Options selects what a diff compares.
type Options struct {
	Path2          string // second document, for cross-document diffs
	Version1       int    // first version to compare
	Version2       int    // second version to compare
	IncludeDeleted bool   // allow diffing deleted documents
	FileContent    string // filesystem content, for the -f flag
}

// Differ is the service-side half of a diff operation.
type Differ interface {
	Diff(ctx context.Context, path string, opts Options) (Result, error)
}

// Run performs a diff and writes the rendered output to w.
func Run(ctx context.Context, w io.Writer, svc Differ, path string, opts Options, colour bool) (Result, error) {
	r, err := svc.Diff(ctx, path, opts)
	if err != nil {
		return r, err
	}

	fmt.Fprint(w, r.Format(colour))
	return r, nil
}

// Result is a computed diff plus the labels naming its two sides.
type Result struct {
	Old  string
	New  string
	Diff string // rendered diff body, without the header
}

// Compute diffs old against new content. Character-level matching with
// semantic cleanup, so a replaced phrase renders as one delete and one
// insert rather than a scatter of single-character edits.
func Compute(oldContent, newContent, oldLabel, newLabel string) Result {
	dmp := diffmatchpatch.New()
	d := dmp.DiffMain(oldContent, newContent, false)
	d = dmp.DiffCleanupSemantic(d)

	return Result{
		Old:  oldLabel,
		New:  newLabel,
		Diff: render(d),
	}
}

// render turns diff segments into prefixed lines: "- " deleted, "+ "
// inserted, "  " context.
func render(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		// A segment ending in newline would Split to a trailing empty
		// line; trim it first.
		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			writeLines(&b, "- ", lines)
		case diffmatchpatch.DiffInsert:
			writeLines(&b, "+ ", lines)
		case diffmatchpatch.DiffEqual:
			if len(lines) > 2*contextLines {
				writeLines(&b, "  ", lines[:contextLines])
				b.WriteString("  ...\n")
				writeLines(&b, "  ", lines[len(lines)-contextLines:])
			} else {
				writeLines(&b, "  ", lines)
			}
		}
	}
	return b.String()
}

func writeLines(b *strings.Builder, prefix string, lines []string) {
	for _, l := range lines {
		b.WriteString(prefix + l + "\n")
	}
}

// Colourise wraps deletions in red and insertions in green with ANSI codes.
func Colourise(d string) string {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		reset = "\033[0m"
	)

	var b strings.Builder
	for _, line := range strings.Split(d, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "- "):
			b.WriteString(red + line + reset + "\n")
		case strings.HasPrefix(line, "+ "):
			b.WriteString(green + line + reset + "\n")
		default:
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// Format renders the diff with its "--- old / +++ new" header.
func (r Result) Format(colour bool) string {
	header := fmt.Sprintf("--- %s\n+++ %s\n", r.Old, r.New)
	if colour {
		return header + Colourise(r.Diff)
	}
	return header + r.Diff
}

// ParseVersionRange parses "v1:v2" into two version numbers. Both sides are
// required and must be at least 1, versions being 1-based.
func ParseVersionRange(s string) (v1, v2 int, err error) {
	first, second, ok := strings.Cut(s, ":")
	if !ok || strings.Contains(second, ":") {
		return 0, 0, fmt.Errorf("invalid version range %q (expected v1:v2)", s)
	}
	if first == "" || second == "" {
		return 0, 0, fmt.Errorf("invalid version range %q (both versions required)", s)
	}
	v1, err = strconv.Atoi(first)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start version: %w", err)
	}
	v2, err = strconv.Atoi(second)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end version: %w", err)
	}
	if v1 < 1 {
		return 0, 0, fmt.Errorf("start version must be >= 1, got %d", v1)
	}
	if v2 < 1 {
		return 0, 0, fmt.Errorf("end version must be >= 1, got %d", v2)
	}
	return v1, v2, nil
}
