package cli

import (
	"fmt"
	"strings"
	"time"

	"mcpie/internal/formatting"

	"github.com/spf13/cobra"
)

// CommandFlags holds the flag values shared by every mcpie run.
type CommandFlags struct {
	// Output is the output format (json, pretty, table, yaml, raw)
	Output string
	// OutputFile receives the rendered output instead of stdout
	OutputFile string
	// Quiet suppresses error messages and progress indicators
	Quiet bool
	// Verbose enables debug logging on stderr
	Verbose bool
	// Stdin reads command input from standard input
	Stdin bool
	// Env holds KEY:value pairs for stdio servers
	Env []string
	// Headers holds KEY:value pairs for HTTP servers
	Headers []string
	// ForceSSE selects the SSE transport for HTTP URLs
	ForceSSE bool
	// Timeout bounds the handshake and every request
	Timeout time.Duration
	// ConfigPath specifies a custom configuration directory path
	ConfigPath string
	// LogFormat selects text or json logs
	LogFormat string
}

// RegisterCommonFlags registers the flags understood by every run.
//
// The registered flags are:
//   - --output: Output format, validated against the supported formats
//   - --output-file/-o: File to write output to
//   - --quiet/-q: Suppress error messages
//   - --verbose/-v: Enable debug logging
//   - --stdin: Read command input from stdin
//   - --env/-e: Environment variable for stdio servers (KEY:value, repeatable)
//   - --header/-H: HTTP header for HTTP servers (KEY:value, repeatable)
//   - --force-sse: Use SSE instead of streamable HTTP
//   - --timeout: Handshake and request timeout
//   - --config: Configuration directory
//   - --log-format: Log format (text, json)
func RegisterCommonFlags(cmd *cobra.Command, flags *CommandFlags, defaultConfigPath string) {
	f := cmd.Flags()
	f.StringVar(&flags.Output, "output", string(formatting.FormatJSON),
		fmt.Sprintf("Output format (%s)", strings.Join(formatting.FormatNames(), ", ")))
	f.StringVarP(&flags.OutputFile, "output-file", "o", "", "Write output to a file instead of stdout")
	f.BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress error messages")
	f.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	f.BoolVar(&flags.Stdin, "stdin", false, "Read command input from stdin")
	f.StringArrayVarP(&flags.Env, "env", "e", nil, "Environment variable for stdio servers (KEY:value, repeatable)")
	f.StringArrayVarP(&flags.Headers, "header", "H", nil, "HTTP header for HTTP servers (KEY:value, repeatable)")
	f.BoolVar(&flags.ForceSSE, "force-sse", false, "Use SSE transport for HTTP servers")
	f.DurationVar(&flags.Timeout, "timeout", 0, "Handshake and request timeout (default from config, 30s)")
	f.StringVar(&flags.ConfigPath, "config", defaultConfigPath, "Configuration directory")
	f.StringVar(&flags.LogFormat, "log-format", "text", "Log format (text, json)")
}

// ParseKeyValues splits KEY:value pairs on the first colon. Keys must be
// non-empty; values may be empty or contain further colons.
func ParseKeyValues(pairs []string, flag string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, ":")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid value %q for '%s': expected KEY:value", pair, flag)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

// EnvMap returns the parsed --env pairs.
func (f *CommandFlags) EnvMap() (map[string]string, error) {
	return ParseKeyValues(f.Env, "--env")
}

// HeaderMap returns the parsed --header pairs.
func (f *CommandFlags) HeaderMap() (map[string]string, error) {
	return ParseKeyValues(f.Headers, "--header")
}

// ToOutputConfig builds the output configuration. An explicit --output
// wins; otherwise the configured default applies, and without one the
// format follows the run mode.
func (f *CommandFlags) ToOutputConfig(cmd *cobra.Command, interactive bool, configured string) (formatting.Config, error) {
	format := string(formatting.DefaultFormat(interactive))
	switch {
	case cmd != nil && cmd.Flags().Changed("output"):
		format = f.Output
	case configured != "":
		format = configured
	}
	if err := formatting.ValidateOutputFormat(format); err != nil {
		return formatting.Config{}, err
	}

	return formatting.Config{
		Format:  formatting.OutputFormat(format),
		Quiet:   f.Quiet,
		Verbose: f.Verbose,
		File:    f.OutputFile,
	}, nil
}

// EffectiveTimeout returns --timeout when it was given, else configured.
func (f *CommandFlags) EffectiveTimeout(cmd *cobra.Command, configured time.Duration) time.Duration {
	if cmd != nil && cmd.Flags().Changed("timeout") {
		return f.Timeout
	}
	return configured
}
