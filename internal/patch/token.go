// token.go implements the lossless tokenizer the matcher operates on.
//
// Separated from apply.go to isolate text segmentation from batch
// orchestration. Content and separator runs alternate, every token carries
// its exact source range, and concatenating token contents in order
// reproduces the input byte for byte. Zero-length tokens are never emitted.
//
// Design: whitespace runs fold newlines and horizontal whitespace into a
// single token. One gap in the needle must line up with one gap in the
// document regardless of how either is spelled, otherwise dedented search
// text could never land on indented document text.

package patch

// token is an indivisible unit of document text: either a whitespace run,
// a single structural punctuation character, or a content run between
// separators. start and end are byte offsets into the source, [start,end).
type token struct {
	content      string
	isWhitespace bool
	start        int
	end          int
}

// structural marks the punctuation characters that always split into
// single-character tokens. Splitting at these lets a needle match even when
// the caller spaces brackets or operators differently from the document.
var structural = [256]bool{
	'[': true, ']': true, '{': true, '}': true, '(': true, ')': true,
	';': true, ',': true, '.': true, ':': true, '=': true,
	'<': true, '>': true, '/': true, '\\': true, '^': true, '$': true,
	'"': true, '\'': true,
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// tokenize splits text into its token sequence. It is total: any input,
// including the empty string, yields a sequence that rejoins to the input.
func tokenize(text string) []token {
	var tokens []token
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case isSpace(c):
			j := i + 1
			for j < len(text) && isSpace(text[j]) {
				j++
			}
			tokens = append(tokens, token{content: text[i:j], isWhitespace: true, start: i, end: j})
			i = j
		case structural[c]:
			tokens = append(tokens, token{content: text[i : i+1], start: i, end: i + 1})
			i++
		default:
			j := i + 1
			for j < len(text) && !isSpace(text[j]) && !structural[text[j]] {
				j++
			}
			tokens = append(tokens, token{content: text[i:j], start: i, end: j})
			i = j
		}
	}
	return tokens
}
