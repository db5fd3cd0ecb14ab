// Package patch applies batches of search/replace edits to document content.
//
// A batch is an ordered list of {original, replacement} pairs, typically
// produced by a language model. Matching is token-based and tolerant of
// whitespace and case drift, overlapping edits resolve deterministically by
// position, edits already applied in an earlier call are recognised and
// skipped, and replacement text is re-indented to match its surroundings.
// Application never fails partially: the result always describes exactly
// which edits applied, which were skipped, and which remain unapplied.
package patch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrInvalidBatch is returned when batch input cannot be decoded.
	ErrInvalidBatch = errors.New("invalid batch")
	// ErrUnapplied is returned by strict applies when any edit failed to apply.
	ErrUnapplied = errors.New("edits could not be applied")
)

// Edit is one requested change. An empty Original marks an insertion; the
// Replacement is then placed at the start of the document.
type Edit struct {
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
}

// Result is the outcome of applying a batch to content in memory.
type Result struct {
	Content        string // Final document text
	Applied        int    // Edits applied, insertions included
	Skipped        int    // Edits recognised as already applied
	Unapplied      int    // Edits never matched
	Passes         int    // Match/apply cycles executed
	FirstUnapplied *Edit  // First edit never matched, for diagnostics
}

// Options configures a batch operation against a stored document.
type Options struct {
	Edits     []Edit // Ordered batch to apply
	MaxPasses int    // Match/apply cycles; 0 uses the configured default
	Strict    bool   // Treat unapplied edits as an error and write nothing
	Author    string // Author attribution
	Message   string // Version message
}

// Outcome describes a batch operation against a stored document.
type Outcome struct {
	Path           string `json:"path"`
	Version        int    `json:"version,omitempty"` // New version, 0 when unchanged
	Applied        int    `json:"applied"`
	Skipped        int    `json:"skipped"`
	Unapplied      int    `json:"unapplied"`
	Passes         int    `json:"passes"`
	Changed        bool   `json:"changed"`
	FirstUnapplied *Edit  `json:"first_unapplied,omitempty"`
	Hint           string `json:"hint,omitempty"` // Closest-match hint for the first unapplied edit
}

// Applier is the interface for applying a batch to a stored document.
type Applier interface {
	ApplyBatch(ctx context.Context, path string, opts Options) (Outcome, error)
}

// Previewer is the interface for computing a batch's effect without writing.
// The string return is a rendered diff of the would-be change.
type Previewer interface {
	PreviewBatch(ctx context.Context, path string, opts Options) (Outcome, string, error)
}

// Run executes a batch apply and writes a human summary.
func Run(ctx context.Context, w io.Writer, svc Applier, path string, opts Options) (Outcome, error) {
	out, err := svc.ApplyBatch(ctx, path, opts)
	if err != nil {
		return out, err
	}

	writeSummary(w, out)
	return out, nil
}

// RunPreview executes a batch preview and writes the diff plus a summary of
// what an apply would do.
func RunPreview(ctx context.Context, w io.Writer, svc Previewer, path string, opts Options) (Outcome, error) {
	out, diff, err := svc.PreviewBatch(ctx, path, opts)
	if err != nil {
		return out, err
	}

	if diff != "" {
		fmt.Fprint(w, diff)
		if !strings.HasSuffix(diff, "\n") {
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintf(w, "Would apply %d edit(s) to %s", out.Applied, out.Path)
	if out.Skipped > 0 {
		fmt.Fprintf(w, ", %d already applied", out.Skipped)
	}
	fmt.Fprintln(w)
	writeWarnings(w, out)
	return out, nil
}

func writeSummary(w io.Writer, out Outcome) {
	if out.Changed {
		fmt.Fprintf(w, "Patched %s: %d applied", out.Path, out.Applied)
		if out.Skipped > 0 {
			fmt.Fprintf(w, ", %d already applied", out.Skipped)
		}
		fmt.Fprintf(w, " (v%d)\n", out.Version)
	} else {
		fmt.Fprintf(w, "No changes to %s", out.Path)
		if out.Skipped > 0 {
			fmt.Fprintf(w, ": %d edit(s) already applied", out.Skipped)
		}
		fmt.Fprintln(w)
	}
	writeWarnings(w, out)
}

func writeWarnings(w io.Writer, out Outcome) {
	if out.Unapplied == 0 {
		return
	}
	fmt.Fprintf(w, "warning: %d edit(s) could not be applied\n", out.Unapplied)
	if out.FirstUnapplied != nil {
		fmt.Fprintf(w, "  first unapplied: %s\n", Preview(out.FirstUnapplied.Original, 80))
	}
	if out.Hint != "" {
		fmt.Fprintf(w, "  %s\n", out.Hint)
	}
}

// ParseBatch decodes batch input: either a JSON array of edits or a single
// edit object.
func ParseBatch(r io.Reader) ([]Edit, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBatch, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidBatch)
	}

	if data[0] == '[' {
		var edits []Edit
		if err := json.Unmarshal(data, &edits); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBatch, err)
		}
		return edits, nil
	}

	var e Edit
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBatch, err)
	}
	return []Edit{e}, nil
}

// Preview returns a quoted single-line preview of s, truncated to max runes.
// The truncation marker sits inside the closing quote so the preview reads as
// one quoted fragment.
func Preview(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return fmt.Sprintf("%q", string(runes[:max])+"...")
	}
	return fmt.Sprintf("%q", s)
}
