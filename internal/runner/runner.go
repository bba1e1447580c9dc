// Package runner executes parsed commands against a session and renders the
// results, either once for a batch run or in an interactive loop.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"mcpie/internal/cli"
	"mcpie/internal/command"
	"mcpie/internal/document"
	"mcpie/internal/exitcode"
	"mcpie/internal/formatting"
	"mcpie/internal/session"
	"mcpie/pkg/logging"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// listView is how one namespace is listed.
type listView struct {
	label   string
	columns []string
}

var listViews = map[command.Namespace]listView{
	command.NamespaceTool:     {label: "Tools", columns: []string{"name", "description"}},
	command.NamespaceResource: {label: "Resources", columns: []string{"uri", "name", "description", "mimeType"}},
	command.NamespacePrompt:   {label: "Prompts", columns: []string{"name", "description"}},
}

// Options tune a Runner.
type Options struct {
	// Interactive enables the connect spinner and colored banner.
	Interactive bool
	// Quiet suppresses the spinner and informational output.
	Quiet bool
	// HistoryFile keeps REPL history across sessions. Empty disables it.
	HistoryFile string
	// Stdout receives REPL banners and help. Defaults to os.Stdout.
	Stdout io.Writer
}

// Runner ties one session to one formatter for the lifetime of the process.
// It runs a single command at a time.
type Runner struct {
	session   session.Session
	formatter formatting.Formatter
	options   Options
}

// New returns a Runner. The session is not connected until a run starts.
func New(s session.Session, f formatting.Formatter, opts Options) *Runner {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return &Runner{session: s, formatter: f, options: opts}
}

// reportedError marks a failure whose message was already shown to the user.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error { return e.error }

// IsReported reports whether err was already printed by the runner, so the
// caller only needs to pick the exit code.
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// report shows err through the formatter and marks it as shown.
func (r *Runner) report(err error) error {
	if err == nil || IsReported(err) {
		return err
	}
	r.formatter.FormatError(exitcode.Message(err, exitcode.Classify(err)))
	return reportedError{err}
}

// HandleCommand performs one round trip for route and writes the rendered
// result. Failures are reported through the formatter and returned.
func (r *Runner) HandleCommand(ctx context.Context, route command.Route) error {
	log := logging.With("Runner", slog.String("command_id", uuid.NewString()[:8]))
	log.Debug("Executing %s", route)

	rendered, err := r.execute(ctx, route)
	if err != nil && !errors.Is(err, errToolFailed) {
		log.Debug("Command failed: %v", err)
		return r.report(err)
	}

	if writeErr := r.formatter.Write(rendered); writeErr != nil {
		return r.report(writeErr)
	}
	if err != nil {
		return r.report(cli.NewProtocolError(fmt.Sprintf("tool %q returned an error", route.Target()), nil))
	}
	log.Debug("Command completed")
	return nil
}

// errToolFailed marks a tool result flagged with isError. The result is
// still rendered.
var errToolFailed = errors.New("tool reported an error")

func (r *Runner) execute(ctx context.Context, route command.Route) (string, error) {
	switch route.Action {
	case command.ActionList:
		view, ok := listViews[route.Namespace]
		if !ok {
			return "", cli.NewParseError("unknown namespace %q", route.Namespace)
		}
		items, err := r.session.List(ctx, route.Namespace)
		if err != nil {
			return "", err
		}
		return r.formatter.FormatList(items, view.label, view.columns)

	case command.ActionCall:
		args, err := command.ParseArguments(route.ParamTokens())
		if err != nil {
			return "", err
		}
		result, err := r.session.Call(ctx, route.Target(), args)
		if err != nil {
			return "", err
		}
		rendered, err := r.formatter.FormatResult(result)
		if err != nil {
			return "", err
		}
		if isError, _ := document.Get(result, "isError"); isError == true {
			return rendered, errToolFailed
		}
		return rendered, nil

	case command.ActionRead:
		result, err := r.session.Read(ctx, route.Target())
		if err != nil {
			return "", err
		}
		return r.formatter.FormatResult(result)

	case command.ActionGet:
		args, err := command.ParseArguments(route.ParamTokens())
		if err != nil {
			return "", err
		}
		result, err := r.session.Get(ctx, route.Target(), args)
		if err != nil {
			return "", err
		}
		return r.formatter.FormatResult(result)
	}
	return "", cli.NewParseError("unsupported action %q", route.Action)
}

// RunCommands resolves the command to run from commands and stdinInput,
// then executes it inside one session.
func (r *Runner) RunCommands(ctx context.Context, commands []string, stdinInput string) error {
	route, err := ResolveRoute(commands, stdinInput)
	if err != nil {
		return err
	}
	return session.With(ctx, r.session, func(ctx context.Context) error {
		return r.HandleCommand(ctx, route)
	})
}

// RunBatch reads stdin, when given, while the session connects and then runs
// the command once. The session is torn down on every path after connect,
// including a command that fails to resolve.
func (r *Runner) RunBatch(ctx context.Context, commands []string, stdin io.Reader) error {
	if stdin == nil {
		return r.RunCommands(ctx, commands, "")
	}

	var input string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		input = string(data)
		return nil
	})
	g.Go(func() error {
		return r.session.Connect(gctx)
	})
	err := g.Wait()
	defer func() {
		r.session.Disconnect()
		logging.Debug("Runner", "Session closed")
	}()
	if err != nil {
		return err
	}

	route, err := ResolveRoute(commands, input)
	if err != nil {
		return err
	}
	return r.HandleCommand(ctx, route)
}

// ResolveRoute decides which command a batch run executes. Explicit
// commands win and stdin supplies their parameters; without commands, stdin
// that reads as a command line is used and anything else falls back to
// listing tools.
func ResolveRoute(commands []string, stdinInput string) (command.Route, error) {
	stdinInput = strings.TrimSpace(stdinInput)

	if len(commands) == 0 {
		if stdinInput != "" {
			route, err := command.ParseLine(stdinInput)
			if err == nil {
				return route, nil
			}
			logging.Debug("Runner", "Stdin is not a command line (%v), listing tools", err)
		}
		return command.DefaultRoute, nil
	}

	tokens := append([]string{}, commands...)
	if len(tokens) == 1 && strings.ContainsAny(tokens[0], " \t") {
		var err error
		if tokens, err = command.Tokenize(tokens[0]); err != nil {
			return command.Route{}, err
		}
	}

	tokens, err := withStdin(tokens, stdinInput)
	if err != nil {
		return command.Route{}, err
	}
	return command.Parse(tokens)
}

// withStdin appends stdin to the command tokens in the slot its action
// takes: call and get receive it as parameters, read as the URI.
func withStdin(tokens []string, stdinInput string) ([]string, error) {
	if stdinInput == "" || len(tokens) < 2 {
		return tokens, nil
	}
	ns, ok := command.ResolveNamespace(tokens[0])
	action := command.Action(strings.ToLower(tokens[1]))
	if !ok || !ns.Accepts(action) {
		return tokens, nil
	}

	// Text that does not decode is passed on verbatim.
	value, err := document.Decode([]byte(stdinInput))
	obj, isObject := value.(*document.Object)

	switch action {
	case command.ActionCall, command.ActionGet:
		if len(tokens) < 3 {
			return tokens, nil
		}
		if isObject {
			data, err := document.Marshal(obj)
			if err != nil {
				return nil, cli.NewDecodeError("stdin", err)
			}
			return append(tokens, string(data)), nil
		}
		return append(tokens, stdinInput), nil

	case command.ActionRead:
		if len(tokens) > 2 {
			logging.Debug("Runner", "Resource URI given, ignoring stdin")
			return tokens, nil
		}
		if err != nil {
			return append(tokens, stdinInput), nil
		}
		if isObject {
			for _, key := range []string{"uri", "name"} {
				if v, ok := obj.Get(key); ok {
					return append(tokens, document.String(v)), nil
				}
			}
		}
		if uri, ok := value.(string); ok {
			return append(tokens, uri), nil
		}
		logging.Debug("Runner", "Stdin holds no resource URI, ignoring it")
		return tokens, nil
	}

	logging.Debug("Runner", "%s %s takes no input, ignoring stdin", ns, action)
	return tokens, nil
}
