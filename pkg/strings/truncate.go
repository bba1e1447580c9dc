package strings

import (
	"strings"
)

// DefaultCellMaxLen is the widest a table cell may get before it is cut.
const DefaultCellMaxLen = 80

// MinTruncateLen is the smallest useful maxLen: one rune plus "...".
const MinTruncateLen = 4

// Flatten turns s into a single line by collapsing every whitespace run
// (newlines, tabs, repeated spaces) into one space.
func Flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most maxLen runes, marking the cut with "...".
// maxLen values below MinTruncateLen are raised to MinTruncateLen. Operates on
// runes so multi-byte characters are never split.
func Truncate(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// TruncateCell prepares a value for a single table cell.
func TruncateCell(s string) string {
	return Truncate(Flatten(s), DefaultCellMaxLen)
}
