// hint.go implements closest-match hints for unapplied patch edits.
//
// Separated from diff.go because this is fuzzy similarity scoring, not diff
// formatting. When the patch engine reports an edit it could never place,
// the most useful diagnostic is the region of the document that looks most
// like the text the caller searched for - usually the caller got one line
// slightly wrong, and seeing the near-miss makes the correction obvious.

package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// minHintSimilarity is the score below which no hint is offered. A match
// this weak would point the caller at noise rather than a near-miss.
const minHintSimilarity = 0.5

// ClosestMatch slides a window the size of needle's line count over content
// and returns the most similar region with its similarity score in [0,1].
// Returns ok=false when content or needle is empty or nothing scores above
// the minimum threshold.
func ClosestMatch(content, needle string) (snippet string, similarity float64, ok bool) {
	needle = strings.TrimRight(needle, "\n")
	if content == "" || needle == "" {
		return "", 0, false
	}

	dmp := diffmatchpatch.New()
	needleLines := strings.Split(needle, "\n")
	contentLines := strings.Split(content, "\n")
	window := len(needleLines)
	if window > len(contentLines) {
		window = len(contentLines)
	}

	best := -1.0
	bestStart := 0
	for i := 0; i+window <= len(contentLines); i++ {
		candidate := strings.Join(contentLines[i:i+window], "\n")
		score := similarityScore(dmp, needle, candidate)
		if score > best {
			best = score
			bestStart = i
		}
	}

	if best < minHintSimilarity {
		return "", best, false
	}
	return strings.Join(contentLines[bestStart:bestStart+window], "\n"), best, true
}

// Hint formats a closest-match hint for an unapplied edit, or returns an
// empty string when the document offers nothing similar enough to show.
func Hint(content, needle string) string {
	snippet, score, ok := ClosestMatch(content, needle)
	if !ok {
		return ""
	}
	return fmt.Sprintf("closest match (%.0f%% similar): %q", score*100, snippet)
}

// similarityScore returns 1 - normalised Levenshtein distance between a and b.
func similarityScore(dmp *diffmatchpatch.DiffMatchPatch, a, b string) float64 {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	diffs := dmp.DiffMain(a, b, false)
	return 1 - float64(dmp.DiffLevenshtein(diffs))/float64(longest)
}
