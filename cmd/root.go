package cmd

import (
	"errors"

	"mcpie/internal/cli"
	"mcpie/internal/config"
	"mcpie/internal/exitcode"
	"mcpie/internal/runner"
	"mcpie/internal/session"

	"github.com/spf13/cobra"
)

// rootFlags holds the values of the flags shared by every run.
var rootFlags = &cli.CommandFlags{}

// exitMapper prints the final message and exits; tests replace it.
var exitMapper = exitcode.Default

// rootCmd is the mcpie command itself: connect to SERVER and run one
// command, or start the interactive loop when none is given.
var rootCmd = newRootCmd(rootFlags)

func newRootCmd(flags *cli.CommandFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcpie SERVER [flags] [-- COMMAND...]",
		Short: "Command-line client for MCP servers",
		Long: `mcpie talks to Model Context Protocol servers from the terminal.

SERVER is an http(s) URL (streamable HTTP, or SSE with --force-sse or a
/sse path), a command line that starts a stdio server, a .py or .js script,
or a server alias from the configuration file.

With a COMMAND after --, mcpie runs it once and exits. Without one it opens
an interactive prompt.

Commands:
  tool list                        resource list          prompt list
  tool call NAME [PARAMS]          resource read URI      prompt get NAME [PARAMS]

PARAMS is a JSON object or key=value pairs; bare values bind to parameters
in declared order. Namespaces may be abbreviated to t, r and p.

Examples:
  mcpie example_server.py -- tool list
  mcpie example_server.py -- t call add a=5 b=3
  echo '{"text": "hello"}' | mcpie example_server.py --stdin -- t call process_text
  mcpie http://localhost:8000/mcp --output table -- r list`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, args)
		},
		// Errors and exit codes are reported by Execute.
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cli.RegisterCommonFlags(cmd, flags, config.DefaultConfigPath())
	return cmd
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
	session.ClientVersion = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and terminates the process with the exit
// code that matches the outcome.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mcpie version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err == nil {
		return
	}
	exit(rootCmd, err, rootFlags.Quiet)
}

// usageError reports a command line that cannot be run at all.
type usageError struct {
	message string
}

func (e *usageError) Error() string { return e.message }

// exitError carries an exit code and message decided during the run.
type exitError struct {
	code    exitcode.Code
	message string
}

func (e *exitError) Error() string { return e.message }

// exit maps err to the process exit code and final message.
func exit(cmd *cobra.Command, err error, quiet bool) {
	var ee *exitError
	if errors.As(err, &ee) {
		exitMapper.ExitWithCode(ee.code, ee.message, quiet)
		return
	}
	var ue *usageError
	if errors.As(err, &ue) {
		exitMapper.ExitWithCode(exitcode.GeneralError, "Error: "+ue.message+"\n\n"+cmd.UsageString(), quiet)
		return
	}
	if runner.IsReported(err) {
		exitMapper.ExitWithCode(exitcode.Classify(err), "", quiet)
		return
	}
	exitMapper.Fail(err, quiet)
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
	rootCmd.AddCommand(newExampleServerCmd())
}
