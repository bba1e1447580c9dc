package formatting

import (
	"strings"

	"mcpie/internal/document"
)

// RawFormatter prints the human payload of a result rather than its
// structure, for piping into other tools.
type RawFormatter struct {
	sink
}

// FormatResult extracts, in order of preference: the text of content[]
// entries of type text, the text of contents[] entries,
// structuredContent.result, and finally the compact JSON of the whole result.
func (f *RawFormatter) FormatResult(result *document.Object) (string, error) {
	if result == nil {
		return "", nil
	}

	if texts := textEntries(result, "content", true); len(texts) > 0 {
		return strings.Join(texts, "\n"), nil
	}
	if texts := textEntries(result, "contents", false); len(texts) > 0 {
		return strings.Join(texts, "\n"), nil
	}
	if structured, ok := result.Get("structuredContent"); ok {
		if obj, ok := structured.(*document.Object); ok {
			if value, ok := obj.Get("result"); ok {
				return document.String(value), nil
			}
		}
	}
	return document.String(result), nil
}

// FormatList prints, per item, the first of columns that holds a value.
// Items with none of the columns are skipped.
func (f *RawFormatter) FormatList(items []*document.Object, _ string, columns []string) (string, error) {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		for _, col := range columns {
			v, ok := document.Get(item, col)
			if !ok || v == nil || v == "" {
				continue
			}
			lines = append(lines, document.String(v))
			break
		}
	}
	return strings.Join(lines, "\n"), nil
}

// textEntries collects the text field of each object in result[key]. With
// typed set, only entries whose type is "text" count.
func textEntries(result *document.Object, key string, typed bool) []string {
	v, ok := result.Get(key)
	if !ok {
		return nil
	}
	entries, ok := v.([]any)
	if !ok {
		return nil
	}

	var texts []string
	for _, entry := range entries {
		obj, ok := entry.(*document.Object)
		if !ok {
			continue
		}
		if typed {
			if kind, _ := obj.Get("type"); kind != "text" {
				continue
			}
		}
		if text, ok := obj.Get("text"); ok {
			if s, ok := text.(string); ok {
				texts = append(texts, s)
			}
		}
	}
	return texts
}
