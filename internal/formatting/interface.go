// Package formatting renders MCP results and listings in the output formats
// supported by mcpie (json, pretty, table, yaml, raw) and writes them to the
// configured sink.
//
// Every formatter implements the same contract, so callers pick one with
// NewFormatter and never switch on the format themselves.
package formatting

import (
	"fmt"
	"strings"

	"mcpie/internal/document"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatJSON   OutputFormat = "json"   // Compact JSON
	FormatPretty OutputFormat = "pretty" // Indented JSON
	FormatTable  OutputFormat = "table"  // Column table
	FormatYAML   OutputFormat = "yaml"   // Block YAML
	FormatRaw    OutputFormat = "raw"    // Human payload only
)

// Formats lists every supported format in help-text order.
var Formats = []OutputFormat{FormatJSON, FormatPretty, FormatTable, FormatYAML, FormatRaw}

// FormatNames returns the supported format names.
func FormatNames() []string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return names
}

// ValidateOutputFormat checks if the provided format is supported.
// Only the CLI boundary validates; NewFormatter itself accepts anything.
func ValidateOutputFormat(format string) error {
	for _, f := range Formats {
		if OutputFormat(format) == f {
			return nil
		}
	}
	return fmt.Errorf("Invalid value for '--output': %q is not one of %s", format, strings.Join(FormatNames(), ", "))
}

// DefaultFormat returns the format used when none was requested explicitly:
// pretty for interactive sessions, json for scripted runs.
func DefaultFormat(interactive bool) OutputFormat {
	if interactive {
		return FormatPretty
	}
	return FormatJSON
}

// Config is the output configuration of one process run. It is built once
// from validated flags and never modified afterwards.
type Config struct {
	Format  OutputFormat
	Quiet   bool
	Verbose bool
	// File, when set, receives each rendered output instead of stdout.
	File string
}

// Formatter renders results and listings for one output format.
type Formatter interface {
	// FormatResult renders a single result. A nil result renders the
	// format's empty token.
	FormatResult(result *document.Object) (string, error)
	// FormatList renders items projected onto columns. label names the
	// collection in human-facing messages.
	FormatList(items []*document.Object, label string, columns []string) (string, error)
	// FormatError reports message on the error stream unless quiet.
	FormatError(message string)
	// Write sends rendered output to the configured sink.
	Write(rendered string) error
	// Config returns the configuration the formatter was built with.
	Config() Config
}

// NewFormatter returns the formatter for cfg.Format. Unknown formats fall
// back to JSON instead of failing so that a misspelt format degrades output
// shape rather than aborting a batch job.
func NewFormatter(cfg Config, opts ...Option) Formatter {
	s := newSink(cfg, opts...)
	switch cfg.Format {
	case FormatPretty:
		return &JSONFormatter{sink: s, indent: true}
	case FormatTable:
		return &TableFormatter{sink: s}
	case FormatYAML:
		return &YAMLFormatter{sink: s}
	case FormatRaw:
		return &RawFormatter{sink: s}
	default:
		return &JSONFormatter{sink: s}
	}
}
