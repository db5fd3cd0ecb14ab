// Package duration parses retention spans like "7d", "4w", and "3m".
// vacuum --older-than takes these rather than Go's duration syntax, which
// has no unit bigger than an hour. A month is fixed at 30 days; retention
// cut-offs do not need calendar arithmetic.
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var spanRe = regexp.MustCompile(`^(\d+)([dwm])$`)

const day = 24 * time.Hour

// Parse converts a span string to a duration. Accepted units are d (days),
// w (weeks), and m (months of 30 days).
func Parse(s string) (time.Duration, error) {
	m := spanRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid duration format: %s (use 7d, 4w, or 3m)", s)
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		// unreachable while the regexp holds, but Atoi's error is real
		return 0, fmt.Errorf("invalid number: %w", err)
	}

	switch m[2] {
	case "d":
		return time.Duration(n) * day, nil
	case "w":
		return time.Duration(n) * 7 * day, nil
	case "m":
		return time.Duration(n) * 30 * day, nil
	default:
		return 0, fmt.Errorf("invalid duration unit: %s", m[2])
	}
}
