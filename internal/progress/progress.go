// Package progress renders progress counters and spinners for long-running
// commands. Everything is written to stderr so stdout stays parseable when
// piped, and every write is gated on TTY detection so redirected runs stay
// silent.
package progress

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// minItems suppresses the counter for small batches, where it would flash
// once and vanish.
const minItems = 5

// blankLine overwrites a progress line on a TTY.
const blankLine = "\r                                        \r"

// Progress is a determinate counter: n of total with a percentage.
type Progress struct {
	w       io.Writer
	label   string
	total   int
	current int
	isTTY   bool
}

// New returns a counter writing to stderr. Totals under minItems render
// nothing.
func New(label string, total int) *Progress {
	return &Progress{
		w:     os.Stderr,
		label: label,
		total: total,
		isTTY: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// Increment advances the counter by one item.
func (p *Progress) Increment() {
	p.current++
}

// Print redraws the counter in place. No-op off TTY or under minItems.
func (p *Progress) Print() {
	if p.total < minItems || !p.isTTY {
		return
	}

	pct := 0
	if p.total > 0 {
		pct = (p.current * 100) / p.total
	}
	fmt.Fprintf(p.w, "\r%s... %d/%d (%d%%)", p.label, p.current, p.total, pct)
}

// Done erases the counter line so the command's summary prints clean.
func (p *Progress) Done() {
	if p.total < minItems || !p.isTTY {
		return
	}
	fmt.Fprint(p.w, blankLine)
}

// Spinner is the indeterminate counterpart, for work with no known total.
type Spinner struct {
	w       io.Writer
	label   string
	frame   int
	isTTY   bool
	frames  []string
	running bool
}

// NewSpinner returns a spinner writing to stderr.
func NewSpinner(label string) *Spinner {
	return &Spinner{
		w:      os.Stderr,
		label:  label,
		isTTY:  term.IsTerminal(int(os.Stderr.Fd())),
		frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start draws the first frame.
func (s *Spinner) Start() {
	if !s.isTTY {
		return
	}
	s.running = true
	fmt.Fprintf(s.w, "%s %s...", s.frames[0], s.label)
}

// Tick advances to the next frame.
func (s *Spinner) Tick() {
	if !s.isTTY || !s.running {
		return
	}
	s.frame = (s.frame + 1) % len(s.frames)
	fmt.Fprintf(s.w, "\r%s %s...", s.frames[s.frame], s.label)
}

// Stop erases the spinner line.
func (s *Spinner) Stop() {
	if !s.isTTY || !s.running {
		return
	}
	s.running = false
	fmt.Fprint(s.w, blankLine)
}
