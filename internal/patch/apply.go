// apply.go implements the multi-pass batch orchestrator.
//
// Each pass re-tokenizes the mutated document, matches every pending edit,
// resolves overlaps by earliest position, and splices the winners. Several
// passes run because one edit's target text may only exist after another
// edit in the same batch has applied; the pass count is bounded so a batch
// that can never resolve terminates with an unapplied report instead of
// looping.
//
// Design: the plain document text is the only state carried between passes.
// Token sequences and match candidates are rebuilt from scratch every pass
// and discarded, so no offsets ever need patching up after a splice.

package patch

import (
	"sort"
	"strings"
)

// DefaultMaxPasses bounds the match/apply cycles for one batch. Two edits
// chained through each other's output resolve in two passes; three covers
// realistic batches. Configurable via patch.max_passes or per call.
const DefaultMaxPasses = 3

// pendingEdit carries an edit through the pass loop with its needle token
// sequences, which never change between passes.
type pendingEdit struct {
	edit     Edit
	original []token
	repl     []token
}

// candidate records where a pending edit matched during one pass. Ranges are
// token indices into that pass's document sequence and die with the pass.
type candidate struct {
	pend  int // index into the pending slice
	match tokenRange
}

// Apply applies a batch of edits to content and reports the outcome. It is a
// pure function: no I/O, no locks, identical inputs give identical results.
// Callers mutating the same logical document must serialise calls themselves.
//
// A maxPasses of zero or less means DefaultMaxPasses. Failure to match is
// not an error: edits still pending at exhaustion are counted as unapplied
// and the first is returned for diagnostics, with content reflecting only
// the edits that did apply.
func Apply(content string, edits []Edit, maxPasses int) Result {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	res := Result{}

	var insertions []Edit
	var pending []pendingEdit
	for _, e := range edits {
		if e.Original == "" {
			insertions = append(insertions, e)
			continue
		}
		pending = append(pending, pendingEdit{
			edit:     e,
			original: tokenize(e.Original),
			repl:     tokenize(e.Replacement),
		})
	}

	if len(insertions) > 0 {
		content = prependInsertions(content, insertions)
		res.Applied += len(insertions)
	}

	for pass := 0; pass < maxPasses && len(pending) > 0; pass++ {
		res.Passes++

		docTokens := tokenize(content)
		candidates, skipped := collectCandidates(docTokens, pending)
		if len(candidates) == 0 {
			// Nothing matched anywhere; later passes would see the
			// same document and fare no better.
			pending = discard(pending, skipped)
			res.Skipped += len(skipped)
			break
		}

		accepted := selectCandidates(candidates)
		content = spliceAll(content, docTokens, pending, accepted)
		res.Applied += len(accepted)
		res.Skipped += len(skipped)

		drop := skipped
		for _, c := range accepted {
			drop = append(drop, c.pend)
		}
		pending = discard(pending, drop)
	}

	res.Content = content
	res.Unapplied = len(pending)
	if len(pending) > 0 {
		first := pending[0].edit
		res.FirstUnapplied = &first
	}
	return res
}

// collectCandidates matches every pending edit against the document. Edits
// whose original text is absent but whose replacement text is present are
// classified already applied and returned as skipped indices.
func collectCandidates(docTokens []token, pending []pendingEdit) (candidates []candidate, skipped []int) {
	for i, p := range pending {
		if r, ok := findMatch(docTokens, p.original); ok {
			candidates = append(candidates, candidate{pend: i, match: r})
			continue
		}
		if _, ok := findMatch(docTokens, p.repl); ok {
			skipped = append(skipped, i)
		}
	}
	return candidates, skipped
}

// selectCandidates keeps a non-overlapping subset of candidates, earliest
// position first, shorter match preferred on equal starts, batch order as
// the final tie-break. Losers stay pending and retry next pass against the
// mutated document.
func selectCandidates(candidates []candidate) []candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].match, candidates[j].match
		if a.start != b.start {
			return a.start < b.start
		}
		return a.end-a.start < b.end-b.start
	})

	var accepted []candidate
	lastEnd := -1
	for _, c := range candidates {
		if c.match.start <= lastEnd {
			continue
		}
		accepted = append(accepted, c)
		lastEnd = c.match.end - 1
	}
	return accepted
}

// spliceAll applies accepted candidates from the highest starting offset to
// the lowest, so earlier offsets stay valid without recomputation. accepted
// must be sorted ascending and non-overlapping, which selectCandidates
// guarantees.
func spliceAll(content string, docTokens []token, pending []pendingEdit, accepted []candidate) string {
	for i := len(accepted) - 1; i >= 0; i-- {
		c := accepted[i]
		start := docTokens[c.match.start].start
		end := docTokens[c.match.end-1].end
		repl := normalizeIndent(content, start, pending[c.pend].edit.Replacement)
		content = content[:start] + repl + content[end:]
	}
	return content
}

// prependInsertions places all insertion edits, joined in input order, ahead
// of the existing content. An empty document becomes the block itself.
// Insertions have no original text to match, so they resolve in this single
// deterministic step before any pass runs.
func prependInsertions(content string, insertions []Edit) string {
	parts := make([]string, len(insertions))
	for i, e := range insertions {
		parts[i] = e.Replacement
	}
	block := strings.Join(parts, "\n")
	if content == "" {
		return block
	}
	return block + "\n" + content
}

// discard removes the pending edits at the given indices, preserving the
// relative order of the rest.
func discard(pending []pendingEdit, indices []int) []pendingEdit {
	if len(indices) == 0 {
		return pending
	}
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	var next []pendingEdit
	for i, p := range pending {
		if !drop[i] {
			next = append(next, p)
		}
	}
	return next
}
