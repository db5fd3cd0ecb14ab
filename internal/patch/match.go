// match.go implements whitespace-tolerant token sequence matching.
//
// Separated from token.go to isolate the equivalence relation and window
// search from text segmentation. The matcher is also how already-applied
// edits are recognised: when an edit's original text cannot be found, its
// replacement text is searched for instead.

package patch

import "strings"

// tokenRange is a half-open [start,end) range of token indices.
type tokenRange struct {
	start int
	end   int
}

// tokensEqual reports whether two tokens are equivalent for matching.
// Whitespace tokens all count as the same kind of gap regardless of their
// exact characters; content tokens compare case-insensitively.
func tokensEqual(a, b token) bool {
	if a.isWhitespace || b.isWhitespace {
		return a.isWhitespace && b.isWhitespace
	}
	return strings.EqualFold(a.content, b.content)
}

// findMatch slides a window of len(needle) across haystack and returns the
// first equivalent range. An empty needle never matches: insertions are
// resolved before matching ever runs, so an empty sequence here means there
// is nothing to look for.
func findMatch(haystack, needle []token) (tokenRange, bool) {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return tokenRange{}, false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if matchesAt(haystack, needle, i) {
			return tokenRange{start: i, end: i + len(needle)}, true
		}
	}
	return tokenRange{}, false
}

func matchesAt(haystack, needle []token, at int) bool {
	for i := range needle {
		if !tokensEqual(haystack[at+i], needle[i]) {
			return false
		}
	}
	return true
}
