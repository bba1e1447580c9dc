package cli

import (
	"testing"
	"time"

	"mcpie/internal/formatting"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagCommand(t *testing.T, args ...string) (*cobra.Command, *CommandFlags) {
	t.Helper()
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	flags := &CommandFlags{}
	RegisterCommonFlags(cmd, flags, "/tmp/mcpie")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, flags
}

func TestRegisterCommonFlags(t *testing.T) {
	cmd, flags := newFlagCommand(t,
		"--output", "yaml", "-o", "out.txt", "-q", "-v", "--stdin",
		"-e", "A:1", "-e", "B:2", "-H", "Authorization:Bearer x",
		"--force-sse", "--timeout", "5s", "--log-format", "json",
	)

	assert.Equal(t, "yaml", flags.Output)
	assert.Equal(t, "out.txt", flags.OutputFile)
	assert.True(t, flags.Quiet)
	assert.True(t, flags.Verbose)
	assert.True(t, flags.Stdin)
	assert.Equal(t, []string{"A:1", "B:2"}, flags.Env)
	assert.Equal(t, []string{"Authorization:Bearer x"}, flags.Headers)
	assert.True(t, flags.ForceSSE)
	assert.Equal(t, 5*time.Second, flags.Timeout)
	assert.Equal(t, "/tmp/mcpie", flags.ConfigPath)
	assert.Equal(t, "json", flags.LogFormat)
	assert.True(t, cmd.Flags().Changed("output"))
}

func TestParseKeyValues(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{name: "none", pairs: nil, want: nil},
		{name: "simple", pairs: []string{"KEY:value"}, want: map[string]string{"KEY": "value"}},
		{name: "first colon splits", pairs: []string{"URL:http://x:8080"}, want: map[string]string{"URL": "http://x:8080"}},
		{name: "empty value", pairs: []string{"EMPTY:"}, want: map[string]string{"EMPTY": ""}},
		{name: "spaces trimmed", pairs: []string{"Authorization: Bearer t"}, want: map[string]string{"Authorization": "Bearer t"}},
		{name: "missing colon", pairs: []string{"KEY=value"}, wantErr: true},
		{name: "missing key", pairs: []string{":value"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKeyValues(tt.pairs, "--env")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "expected KEY:value")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommandFlags_ToOutputConfig(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		interactive bool
		configured  string
		want        formatting.OutputFormat
		wantErr     string
	}{
		{name: "batch default", want: formatting.FormatJSON},
		{name: "interactive default", interactive: true, want: formatting.FormatPretty},
		{name: "explicit wins in interactive mode", args: []string{"--output", "json"}, interactive: true, want: formatting.FormatJSON},
		{name: "configured default", configured: "table", interactive: true, want: formatting.FormatTable},
		{name: "explicit beats configured", args: []string{"--output", "raw"}, configured: "table", want: formatting.FormatRaw},
		{name: "invalid", args: []string{"--output", "xml"}, wantErr: "Invalid value for '--output'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, flags := newFlagCommand(t, append(tt.args, "-q", "-o", "result.json")...)
			cfg, err := flags.ToOutputConfig(cmd, tt.interactive, tt.configured)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Format)
			assert.True(t, cfg.Quiet)
			assert.Equal(t, "result.json", cfg.File)
		})
	}
}

func TestCommandFlags_EffectiveTimeout(t *testing.T) {
	cmd, flags := newFlagCommand(t)
	assert.Equal(t, 30*time.Second, flags.EffectiveTimeout(cmd, 30*time.Second))

	cmd, flags = newFlagCommand(t, "--timeout", "0s")
	assert.Equal(t, time.Duration(0), flags.EffectiveTimeout(cmd, 30*time.Second))
}
