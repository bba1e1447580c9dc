package formatting

import (
	"mcpie/internal/document"
)

// JSONFormatter renders compact JSON, or two-space indented JSON for the
// pretty format. Key order follows the result.
type JSONFormatter struct {
	sink
	indent bool
}

// FormatResult renders result, or {} when there is none.
func (f *JSONFormatter) FormatResult(result *document.Object) (string, error) {
	if result == nil {
		return "{}", nil
	}
	return f.marshal(result)
}

// FormatList renders the full items as a JSON array. Columns only shape
// the table and raw formats.
func (f *JSONFormatter) FormatList(items []*document.Object, _ string, _ []string) (string, error) {
	return f.marshal(objectsToSlice(items))
}

func (f *JSONFormatter) marshal(v any) (string, error) {
	var (
		data []byte
		err  error
	)
	if f.indent {
		data, err = document.MarshalIndent(v)
	} else {
		data, err = document.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func objectsToSlice(items []*document.Object) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
