package formatting

import (
	"bytes"
	"fmt"
	"strings"

	"mcpie/internal/document"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	sink
}

// FormatResult renders result as a block mapping, or null when there is none.
func (f *YAMLFormatter) FormatResult(result *document.Object) (string, error) {
	if result == nil {
		return "null", nil
	}
	return marshalYAML(result)
}

// FormatList renders the full items as a block sequence, or [] when empty.
func (f *YAMLFormatter) FormatList(items []*document.Object, _ string, _ []string) (string, error) {
	return marshalYAML(objectsToSlice(items))
}

func marshalYAML(v any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(document.YAMLNode(v)); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
