package command

import (
	"strings"
)

// Namespace is one of the three MCP object categories.
type Namespace string

const (
	NamespaceTool     Namespace = "tool"
	NamespaceResource Namespace = "resource"
	NamespacePrompt   Namespace = "prompt"
)

// Action is an operation within a namespace.
type Action string

const (
	ActionList Action = "list"
	ActionCall Action = "call"
	ActionRead Action = "read"
	ActionGet  Action = "get"
)

// namespaceAliases maps every accepted spelling to its namespace.
var namespaceAliases = map[string]Namespace{
	"t":         NamespaceTool,
	"tool":      NamespaceTool,
	"tools":     NamespaceTool,
	"r":         NamespaceResource,
	"resource":  NamespaceResource,
	"resources": NamespaceResource,
	"p":         NamespacePrompt,
	"prompt":    NamespacePrompt,
	"prompts":   NamespacePrompt,
}

// namespaceActions lists the actions each namespace accepts, list first.
var namespaceActions = map[Namespace][]Action{
	NamespaceTool:     {ActionList, ActionCall},
	NamespaceResource: {ActionList, ActionRead},
	NamespacePrompt:   {ActionList, ActionGet},
}

// Namespaces returns the namespaces in display order.
func Namespaces() []Namespace {
	return []Namespace{NamespaceTool, NamespaceResource, NamespacePrompt}
}

// ResolveNamespace maps a token such as "t" or "tools" to its namespace.
func ResolveNamespace(token string) (Namespace, bool) {
	ns, ok := namespaceAliases[strings.ToLower(token)]
	return ns, ok
}

// Aliases returns the accepted spellings of ns, shortest first.
func (n Namespace) Aliases() []string {
	return []string{string(n)[:1], string(n), string(n) + "s"}
}

// Actions returns the actions accepted by n.
func (n Namespace) Actions() []Action {
	return namespaceActions[n]
}

// Accepts reports whether a is valid for n.
func (n Namespace) Accepts(a Action) bool {
	for _, candidate := range namespaceActions[n] {
		if candidate == a {
			return true
		}
	}
	return false
}

// Route is one parsed command line.
type Route struct {
	Namespace Namespace
	Action    Action
	// Args are the tokens after the action: the target name or URI
	// followed by parameter tokens.
	Args []string
}

// DefaultRoute is used when a batch run has nothing else to execute.
var DefaultRoute = Route{Namespace: NamespaceTool, Action: ActionList}

// Target returns the tool or prompt name, or the resource URI.
func (r Route) Target() string {
	if len(r.Args) == 0 {
		return ""
	}
	return r.Args[0]
}

// ParamTokens returns the tokens after the target.
func (r Route) ParamTokens() []string {
	if len(r.Args) < 2 {
		return nil
	}
	return r.Args[1:]
}

// Tokens returns the route as command-line tokens.
func (r Route) Tokens() []string {
	tokens := make([]string, 0, len(r.Args)+2)
	tokens = append(tokens, string(r.Namespace), string(r.Action))
	return append(tokens, r.Args...)
}

// String renders the route as it would be typed.
func (r Route) String() string {
	return strings.Join(r.Tokens(), " ")
}
