package strings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single line unchanged", "hello world", "hello world"},
		{"newlines replaced", "hello\nworld", "hello world"},
		{"crlf handled", "hello\r\nworld", "hello world"},
		{"runs collapsed", "hello \t\n  world", "hello world"},
		{"edges trimmed", "  hello  ", "hello"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Flatten(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"long string truncated", "hello world this is a long string", 15, "hello world ..."},
		{"unicode is cut on rune boundaries", "héllo wörld", 8, "héllo..."},
		{"tiny maxLen clamped", "abcdefgh", 1, "a..."},
		{"negative maxLen clamped", "abcdefgh", -5, "a..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.maxLen))
		})
	}
}

func TestTruncateCell(t *testing.T) {
	assert.Equal(t, "line one line two", TruncateCell("line one\nline two"))

	long := strings.Repeat("x", DefaultCellMaxLen+20)
	got := TruncateCell(long)
	assert.Len(t, []rune(got), DefaultCellMaxLen)
	assert.True(t, strings.HasSuffix(got, "..."))
}
