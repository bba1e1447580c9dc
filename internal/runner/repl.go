package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"mcpie/internal/command"
	"mcpie/internal/document"
	"mcpie/internal/session"
	"mcpie/pkg/logging"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/text"
)

const prompt = "mcpie> "

// exitCommands end the interactive loop.
var exitCommands = map[string]bool{"exit": true, "quit": true, ":q": true}

// lineReader is the part of readline the loop needs.
type lineReader interface {
	Readline() (string, error)
}

// RunREPL connects once and reads commands until exit, quit or EOF. Failed
// commands are reported and the loop goes on. Ctrl-C clears the current
// line or cancels the running command.
func (r *Runner) RunREPL(ctx context.Context) error {
	return session.With(ctx, r.connecting(), func(ctx context.Context) error {
		r.banner()

		if r.options.HistoryFile != "" {
			if err := os.MkdirAll(filepath.Dir(r.options.HistoryFile), 0o755); err != nil {
				logging.Debug("Runner", "Cannot create history directory: %v", err)
			}
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt:            prompt,
			HistoryFile:       r.options.HistoryFile,
			AutoComplete:      r.completer(ctx),
			InterruptPrompt:   "^C",
			EOFPrompt:         "exit",
			HistorySearchFold: true,
		})
		if err != nil {
			return fmt.Errorf("failed to create readline instance: %w", err)
		}
		defer rl.Close()

		return r.loop(ctx, rl)
	})
}

func (r *Runner) loop(ctx context.Context, lr lineReader) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := lr.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if exitCommands[strings.ToLower(input)] {
			return nil
		}
		if strings.EqualFold(input, "help") {
			fmt.Fprintln(r.options.Stdout, command.Usage())
			continue
		}

		route, err := command.ParseLine(input)
		if err != nil {
			_ = r.report(err)
			continue
		}

		cmdCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		_ = r.HandleCommand(cmdCtx, route)
		stop()
	}
}

// banner greets the user once connected.
func (r *Runner) banner() {
	if r.options.Quiet {
		return
	}
	name := "MCP server"
	if d, ok := r.session.(session.Describer); ok {
		info := d.ServerInfo()
		name = strings.TrimSpace(info.Name + " " + info.Version)
	}
	if r.options.Interactive {
		fmt.Fprintf(r.options.Stdout, "%s %s\n", text.Bold.Sprint("Connected to"), text.FgGreen.Sprint(name))
		fmt.Fprintln(r.options.Stdout, text.FgHiBlack.Sprint("Type 'help' for commands, 'exit' to quit. Use TAB for completion."))
		return
	}
	fmt.Fprintf(r.options.Stdout, "Connected to %s\n", name)
}

// completer offers namespaces, actions and the names the server reported
// when the loop started.
func (r *Runner) completer(ctx context.Context) *readline.PrefixCompleter {
	names := r.targetNames(ctx)

	items := make([]readline.PrefixCompleterInterface, 0, len(command.Namespaces())+3)
	for _, ns := range command.Namespaces() {
		var actions []readline.PrefixCompleterInterface
		for _, action := range ns.Actions() {
			var targets []readline.PrefixCompleterInterface
			if action != command.ActionList {
				for _, name := range names[ns] {
					targets = append(targets, readline.PcItem(name))
				}
			}
			actions = append(actions, readline.PcItem(string(action), targets...))
		}
		items = append(items, readline.PcItem(string(ns), actions...))
	}
	items = append(items, readline.PcItem("help"), readline.PcItem("exit"), readline.PcItem("quit"))
	return readline.NewPrefixCompleter(items...)
}

// targetNames lists each namespace once. Failures only cost completion.
func (r *Runner) targetNames(ctx context.Context) map[command.Namespace][]string {
	names := make(map[command.Namespace][]string)
	for _, ns := range command.Namespaces() {
		items, err := r.session.List(ctx, ns)
		if err != nil {
			logging.Debug("Runner", "Cannot list %s for completion: %v", ns, err)
			continue
		}
		key := "name"
		if ns == command.NamespaceResource {
			key = "uri"
		}
		for _, item := range items {
			if v, ok := document.Get(item, key); ok {
				names[ns] = append(names[ns], document.String(v))
			}
		}
	}
	return names
}

// connecting wraps the session with a spinner for interactive runs.
func (r *Runner) connecting() session.Session {
	if !r.options.Interactive || r.options.Quiet {
		return r.session
	}
	return &spinningSession{Session: r.session}
}

type spinningSession struct {
	session.Session
}

func (s *spinningSession) Connect(ctx context.Context) error {
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Suffix = " Connecting to MCP server..."
	sp.Start()
	defer sp.Stop()
	return s.Session.Connect(ctx)
}
