package command

import (
	"fmt"
	"strings"

	"mcpie/internal/cli"

	"github.com/google/shlex"
)

// Parse turns command tokens into a Route. Tokens are expected unquoted, as
// a shell or Tokenize leaves them.
func Parse(tokens []string) (Route, error) {
	if len(tokens) == 0 {
		return Route{}, cli.NewParseError("empty command, expected: <namespace> <action> [args...]")
	}

	ns, ok := ResolveNamespace(tokens[0])
	if !ok {
		return Route{}, cli.NewParseError("unknown namespace %q, expected one of: t/tool, r/resource, p/prompt", tokens[0])
	}
	if len(tokens) < 2 {
		return Route{}, cli.NewParseError("missing action for %s, expected one of: %s", ns, joinActions(ns))
	}

	action := Action(strings.ToLower(tokens[1]))
	if !ns.Accepts(action) {
		return Route{}, cli.NewParseError("invalid action %q for %s, expected one of: %s", tokens[1], ns, joinActions(ns))
	}

	args := make([]string, 0, len(tokens)-2)
	args = append(args, tokens[2:]...)
	route := Route{Namespace: ns, Action: action, Args: args}

	switch action {
	case ActionList:
		if len(args) > 0 {
			return Route{}, cli.NewParseError("%s list takes no arguments, got %q", ns, strings.Join(args, " "))
		}
	case ActionCall, ActionGet:
		if len(args) == 0 {
			return Route{}, cli.NewParseError("usage: %s %s <name> [json | key=value...]", ns, action)
		}
	case ActionRead:
		if len(args) != 1 {
			return Route{}, cli.NewParseError("usage: %s read <uri>", ns)
		}
	}
	return route, nil
}

// Tokenize splits a command line using shell quoting rules, so that
// `t call add '{"a": 5}'` keeps the JSON object as one token.
func Tokenize(line string) ([]string, error) {
	tokens, err := shlex.Split(line)
	if err != nil {
		return nil, cli.NewParseError("cannot split command line: %v", err)
	}
	return tokens, nil
}

// ParseLine tokenizes and parses one command line.
func ParseLine(line string) (Route, error) {
	tokens, err := Tokenize(line)
	if err != nil {
		return Route{}, err
	}
	return Parse(tokens)
}

func joinActions(ns Namespace) string {
	actions := ns.Actions()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

// Usage describes the command grammar for help output.
func Usage() string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, ns := range Namespaces() {
		aliases := ns.Aliases()
		for _, action := range ns.Actions() {
			fmt.Fprintf(&b, "  %-22s %s\n", fmt.Sprintf("%s %s%s", aliases[0], action, actionArgs(action)), actionHelp(ns, action))
		}
	}
	b.WriteString("\nNamespaces accept short and long forms: t/tool, r/resource, p/prompt.\n")
	b.WriteString("Parameters are a JSON object or key=value pairs; bare values bind in declared order.")
	return b.String()
}

func actionArgs(action Action) string {
	switch action {
	case ActionCall, ActionGet:
		return " <name> [params]"
	case ActionRead:
		return " <uri>"
	default:
		return ""
	}
}

func actionHelp(ns Namespace, action Action) string {
	switch action {
	case ActionList:
		return fmt.Sprintf("List available %ss", ns)
	case ActionCall:
		return "Call a tool"
	case ActionRead:
		return "Read a resource"
	case ActionGet:
		return "Get a prompt"
	default:
		return ""
	}
}
