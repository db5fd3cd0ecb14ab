// indent.go implements re-indentation of replacement text at a match site.
//
// Separated from apply.go to isolate line arithmetic from orchestration.
// Callers routinely submit replacement text dedented to column zero; before
// splicing, the common leading whitespace is stripped and the indentation of
// the line containing the match is prepended instead.

package patch

import "strings"

// normalizeIndent re-flows replacement so it sits at the indentation of the
// line containing matchStart in content. Blank lines become empty. The first
// line is left at its dedented column: it is spliced mid-line, where the
// document already supplies everything up to the match.
func normalizeIndent(content string, matchStart int, replacement string) string {
	target := lineIndent(content, matchStart)
	lines := strings.Split(replacement, "\n")
	min := minIndent(lines)

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		line = line[min:]
		if i > 0 {
			line = target + line
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// lineIndent returns the leading whitespace of the line containing pos.
func lineIndent(content string, pos int) string {
	start := strings.LastIndexByte(content[:pos], '\n') + 1
	end := start
	for end < len(content) && (content[end] == ' ' || content[end] == '\t') {
		end++
	}
	return content[start:end]
}

// minIndent returns the smallest leading-whitespace length among non-blank
// lines. Blank lines are excluded so a spacer line cannot drag the minimum
// to zero.
func minIndent(lines []string) int {
	min := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := 0
		for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
			n++
		}
		if min == -1 || n < min {
			min = n
		}
	}
	if min == -1 {
		return 0
	}
	return min
}
