package formatting

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mcpie/internal/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFormatter(t *testing.T, cfg Config) (Formatter, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	return NewFormatter(cfg, WithStreams(&stdout, &stderr)), &stdout, &stderr
}

func mustObject(t *testing.T, s string) *document.Object {
	t.Helper()
	obj, err := document.DecodeObject([]byte(s))
	require.NoError(t, err)
	return obj
}

func TestValidateOutputFormat(t *testing.T) {
	for _, name := range []string{"json", "pretty", "table", "yaml", "raw"} {
		assert.NoError(t, ValidateOutputFormat(name), name)
	}
	err := ValidateOutputFormat("invalid_format")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid value for '--output'")
}

func TestDefaultFormat(t *testing.T) {
	assert.Equal(t, FormatPretty, DefaultFormat(true))
	assert.Equal(t, FormatJSON, DefaultFormat(false))
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format   OutputFormat
		expected Formatter
	}{
		{FormatJSON, &JSONFormatter{}},
		{FormatPretty, &JSONFormatter{}},
		{FormatTable, &TableFormatter{}},
		{FormatYAML, &YAMLFormatter{}},
		{FormatRaw, &RawFormatter{}},
		{"unknown", &JSONFormatter{}},
		{"", &JSONFormatter{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f := NewFormatter(Config{Format: tt.format})
			assert.IsType(t, tt.expected, f)
			assert.Equal(t, tt.format, f.Config().Format)
		})
	}

	unknown := NewFormatter(Config{Format: "csv"}).(*JSONFormatter)
	assert.False(t, unknown.indent, "unknown formats use compact JSON")
	assert.True(t, NewFormatter(Config{Format: FormatPretty}).(*JSONFormatter).indent)
}

func TestFormatResult_Empty(t *testing.T) {
	tests := []struct {
		format   OutputFormat
		expected string
	}{
		{FormatJSON, "{}"},
		{FormatPretty, "{}"},
		{FormatYAML, "null"},
		{FormatRaw, ""},
		{FormatTable, "No data"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			out, err := NewFormatter(Config{Format: tt.format}).FormatResult(nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestFormatList_Empty(t *testing.T) {
	tests := []struct {
		format   OutputFormat
		expected string
	}{
		{FormatJSON, "[]"},
		{FormatPretty, "[]"},
		{FormatYAML, "[]"},
		{FormatRaw, ""},
		{FormatTable, "No Test available"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			out, err := NewFormatter(Config{Format: tt.format}).FormatList(nil, "Test", []string{"name"})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	f := NewFormatter(Config{Format: FormatJSON})

	t.Run("compact", func(t *testing.T) {
		out, err := f.FormatResult(document.FromPairs("test", "data"))
		require.NoError(t, err)
		assert.Equal(t, `{"test":"data"}`, out)
	})

	t.Run("round trip and key order", func(t *testing.T) {
		input := `{"z":1,"a":{"nested":[true,null,"x"]},"m":"<tag>"}`
		out, err := f.FormatResult(mustObject(t, input))
		require.NoError(t, err)
		assert.Equal(t, input, out)

		var parsed map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &parsed))
		assert.Equal(t, document.Plain(mustObject(t, input)), parsed)
	})

	t.Run("idempotent", func(t *testing.T) {
		obj := mustObject(t, `{"content":[{"type":"text","text":"8"}]}`)
		first, err := f.FormatResult(obj)
		require.NoError(t, err)
		second, err := f.FormatResult(obj)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("list keeps full items", func(t *testing.T) {
		items := []*document.Object{
			mustObject(t, `{"name":"add","description":"Add two numbers","inputSchema":{"type":"object"}}`),
		}
		out, err := f.FormatList(items, "Tools", []string{"name"})
		require.NoError(t, err)
		assert.Equal(t, `[{"name":"add","description":"Add two numbers","inputSchema":{"type":"object"}}]`, out)
	})
}

func TestPrettyFormatter(t *testing.T) {
	f := NewFormatter(Config{Format: FormatPretty})

	out, err := f.FormatResult(document.FromPairs("test", "data", "n", 1))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"test\": \"data\",\n  \"n\": 1\n}", out)

	out, err = f.FormatList([]*document.Object{document.FromPairs("name", "a")}, "Tools", nil)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"name\": \"a\"\n  }\n]", out)
}

func TestYAMLFormatter(t *testing.T) {
	f := NewFormatter(Config{Format: FormatYAML})

	out, err := f.FormatResult(mustObject(t, `{"test":"data","list":[1,2],"nested":{"k":"v"}}`))
	require.NoError(t, err)
	assert.Equal(t, "test: data\nlist:\n  - 1\n  - 2\nnested:\n  k: v", out)

	out, err = f.FormatList([]*document.Object{document.FromPairs("name", "item1")}, "Tools", []string{"name"})
	require.NoError(t, err)
	assert.Equal(t, "- name: item1", out)
}

func TestTableFormatter(t *testing.T) {
	f := NewFormatter(Config{Format: FormatTable})

	t.Run("list renders header divider rows", func(t *testing.T) {
		items := []*document.Object{
			document.FromPairs("name", "item1", "description", "desc1"),
			document.FromPairs("name", "item2"),
		}
		out, err := f.FormatList(items, "Tools", []string{"name", "description"})
		require.NoError(t, err)

		lines := strings.Split(out, "\n")
		require.Len(t, lines, 4)
		assert.Contains(t, lines[0], "name")
		assert.Contains(t, lines[0], "description")
		assert.Equal(t, "", strings.Trim(lines[1], "-+| "), "second line is the divider")
		assert.Contains(t, lines[2], "item1")
		assert.Contains(t, lines[2], "desc1")
		assert.Contains(t, lines[3], "item2")
		assert.NotContains(t, lines[3], "desc1")
	})

	t.Run("multi-line cells are flattened", func(t *testing.T) {
		items := []*document.Object{document.FromPairs("name", "x", "description", "line one\nline two")}
		out, err := f.FormatList(items, "Tools", []string{"name", "description"})
		require.NoError(t, err)
		assert.Contains(t, out, "line one line two")
	})

	t.Run("single result renders key value lines", func(t *testing.T) {
		out, err := f.FormatResult(mustObject(t, `{"test":"data","count":2,"tags":["a"]}`))
		require.NoError(t, err)
		assert.Equal(t, "test: data\ncount: 2\ntags: [\"a\"]", out)
	})
}

func TestRawFormatter(t *testing.T) {
	f := NewFormatter(Config{Format: FormatRaw})

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "content text entries",
			input:    `{"content":[{"type":"text","text":"Hello"},{"type":"image","data":"..."},{"type":"text","text":"World"}]}`,
			expected: "Hello\nWorld",
		},
		{
			name:     "resource contents",
			input:    `{"contents":[{"uri":"config://app","text":"{\"debug\":false}"}]}`,
			expected: `{"debug":false}`,
		},
		{
			name:     "structured content result",
			input:    `{"structuredContent":{"result":42}}`,
			expected: "42",
		},
		{
			name:     "content without text falls through",
			input:    `{"content":[{"type":"image","data":"x"}],"structuredContent":{"result":"ok"}}`,
			expected: "ok",
		},
		{
			name:     "whole mapping",
			input:    `{"other":"value"}`,
			expected: `{"other":"value"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.FormatResult(mustObject(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}

	t.Run("list picks first populated column", func(t *testing.T) {
		items := []*document.Object{
			document.FromPairs("name", "item1"),
			document.FromPairs("uri", "uri2"),
			document.FromPairs("description", "ignored"),
		}
		out, err := f.FormatList(items, "Test", []string{"name", "uri"})
		require.NoError(t, err)
		assert.Equal(t, "item1\nuri2", out)
	})
}

func TestFormatError(t *testing.T) {
	t.Run("written to stderr", func(t *testing.T) {
		f, stdout, stderr := newTestFormatter(t, Config{Format: FormatJSON})
		f.FormatError("Error: boom")
		assert.Equal(t, "Error: boom\n", stderr.String())
		assert.Empty(t, stdout.String())
	})

	t.Run("quiet suppresses everything", func(t *testing.T) {
		for _, format := range Formats {
			f, stdout, stderr := newTestFormatter(t, Config{Format: format, Quiet: true})
			f.FormatError("Error: boom")
			assert.Empty(t, stderr.String())
			assert.Empty(t, stdout.String())
		}
	})
}

func TestWrite(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		f, stdout, _ := newTestFormatter(t, Config{Format: FormatJSON})
		require.NoError(t, f.Write(`{"a":1}`))
		assert.Equal(t, "{\"a\":1}\n", stdout.String())
	})

	t.Run("file overwrites", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "output.json")
		require.NoError(t, os.WriteFile(path, []byte("previous content that is longer"), 0o644))

		f, stdout, _ := newTestFormatter(t, Config{Format: FormatJSON, File: path})
		require.NoError(t, f.Write(`{"test":"data"}`))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, `{"test":"data"}`, string(data))
		assert.Empty(t, stdout.String())
	})

	t.Run("unwritable file", func(t *testing.T) {
		f, _, _ := newTestFormatter(t, Config{File: filepath.Join(t.TempDir(), "missing", "out.json")})
		assert.Error(t, f.Write("x"))
	})
}
