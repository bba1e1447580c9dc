package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"mcpie/internal/cli"
	"mcpie/internal/config"
	"mcpie/internal/exitcode"
	"mcpie/internal/formatting"
	"mcpie/internal/runner"
	"mcpie/internal/session"
	"mcpie/pkg/logging"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// stdinIsTerminal is swapped in tests.
var stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

// stdoutIsTerminal is swapped in tests.
var stdoutIsTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

// stdinReader is swapped in tests.
var stdinReader io.Reader = os.Stdin

// newSession is swapped in tests.
var newSession = func(target session.Target, opts ...session.Option) session.Session {
	return session.New(target, opts...)
}

func run(cmd *cobra.Command, flags *cli.CommandFlags, args []string) error {
	logging.Init(logging.LevelForVerbosity(flags.Verbose), logging.ParseFormat(flags.LogFormat), os.Stderr)

	server, commands, err := splitArgs(cmd, args)
	if err != nil {
		return err
	}

	if flags.Stdin && stdinIsTerminal() {
		return &exitError{code: exitcode.InvalidInput, message: "Error: --stdin flag requires input from stdin"}
	}
	interactive := len(commands) == 0 && !flags.Stdin

	cfg, err := config.LoadConfig(flags.ConfigPath)
	if err != nil {
		return err
	}
	outCfg, err := flags.ToOutputConfig(cmd, interactive, cfg.Output)
	if err != nil {
		return &usageError{message: err.Error()}
	}
	target, err := resolveTarget(cfg, server, flags)
	if err != nil {
		return &usageError{message: err.Error()}
	}
	logging.Debug("CLI", "Target %s over %s, output %s", target, target.Transport, outCfg.Format)

	var stderr io.Writer
	if flags.Verbose {
		stderr = os.Stderr
	}
	sess := newSession(target,
		session.WithTimeout(flags.EffectiveTimeout(cmd, cfg.Timeout)),
		session.WithStderr(stderr),
	)
	r := runner.New(sess, formatting.NewFormatter(outCfg), runner.Options{
		Interactive: interactive && stdoutIsTerminal(),
		Quiet:       flags.Quiet,
		HistoryFile: cfg.HistoryFile,
		Stdout:      cmd.OutOrStdout(),
	})

	if interactive {
		// Ctrl-C is handled per command inside the loop.
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
		defer stop()
		return r.RunREPL(ctx)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var stdin io.Reader
	if flags.Stdin {
		stdin = stdinReader
	}
	return r.RunBatch(ctx, commands, stdin)
}

// splitArgs separates SERVER from the command tokens after it. Tokens
// after -- and bare tokens after SERVER are both commands.
func splitArgs(cmd *cobra.Command, args []string) (string, []string, error) {
	if len(args) == 0 || cmd.ArgsLenAtDash() == 0 {
		return "", nil, &usageError{message: "missing argument 'SERVER'"}
	}
	return args[0], args[1:], nil
}

// resolveTarget turns SERVER, or the configured alias it names, into a
// session target. Flag values are layered over the alias.
func resolveTarget(cfg config.Config, server string, flags *cli.CommandFlags) (session.Target, error) {
	env, err := flags.EnvMap()
	if err != nil {
		return session.Target{}, err
	}
	headers, err := flags.HeaderMap()
	if err != nil {
		return session.Target{}, err
	}

	entry, ok := cfg.Server(server)
	if !ok {
		return session.ParseTarget(server, flags.ForceSSE, env, headers)
	}

	logging.Debug("CLI", "Using configured server %q", server)
	location := entry.URL
	if location == "" {
		location = entry.Command
	}
	target, err := session.ParseTarget(location, flags.ForceSSE || entry.ForceSSE,
		merge(entry.Env, env), merge(entry.Headers, headers))
	if err != nil {
		return session.Target{}, fmt.Errorf("server %q: %w", server, err)
	}
	if target.Transport == session.TransportStdio {
		target.Args = append(target.Args, entry.Args...)
	}
	return target, nil
}

// merge returns base overlaid with override.
func merge(base, override map[string]string) map[string]string {
	if len(base) == 0 {
		return override
	}
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
