package command

import (
	"testing"

	"mcpie/internal/cli"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []string
		expected Route
	}{
		{"short tool list", []string{"t", "list"}, Route{NamespaceTool, ActionList, []string{}}},
		{"long tool list", []string{"tool", "list"}, Route{NamespaceTool, ActionList, []string{}}},
		{"plural alias", []string{"tools", "list"}, Route{NamespaceTool, ActionList, []string{}}},
		{"mixed case", []string{"Tool", "LIST"}, Route{NamespaceTool, ActionList, []string{}}},
		{"tool call", []string{"t", "call", "add", `{"a":5,"b":3}`}, Route{NamespaceTool, ActionCall, []string{"add", `{"a":5,"b":3}`}}},
		{"tool call positional", []string{"t", "call", "add", "5", "3"}, Route{NamespaceTool, ActionCall, []string{"add", "5", "3"}}},
		{"resource list", []string{"r", "list"}, Route{NamespaceResource, ActionList, []string{}}},
		{"resource read", []string{"resource", "read", "config://app"}, Route{NamespaceResource, ActionRead, []string{"config://app"}}},
		{"prompt get", []string{"p", "get", "review_code", `{"code":"x"}`}, Route{NamespacePrompt, ActionGet, []string{"review_code", `{"code":"x"}`}}},
		{"prompt list", []string{"prompt", "list"}, Route{NamespacePrompt, ActionList, []string{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, err := Parse(tt.tokens)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, route)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		tokens  []string
		message string
	}{
		{"empty", nil, "empty command"},
		{"unknown namespace", []string{"x", "list"}, "unknown namespace"},
		{"missing action", []string{"t"}, "missing action"},
		{"read on tools", []string{"t", "read", "x"}, "invalid action"},
		{"call on resources", []string{"r", "call", "x"}, "invalid action"},
		{"get on tools", []string{"tool", "get", "x"}, "invalid action"},
		{"call on prompts", []string{"p", "call", "x"}, "invalid action"},
		{"list with args", []string{"t", "list", "extra"}, "takes no arguments"},
		{"call without name", []string{"t", "call"}, "usage: tool call"},
		{"get without name", []string{"p", "get"}, "usage: prompt get"},
		{"read without uri", []string{"r", "read"}, "usage: resource read"},
		{"read with two uris", []string{"r", "read", "a://1", "b://2"}, "usage: resource read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.tokens)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
			assert.Equal(t, cli.KindParse, cli.KindOf(err))
		})
	}
}

func TestParseLine(t *testing.T) {
	route, err := ParseLine(`t call add '{"a": 5, "b": 3}'`)
	require.NoError(t, err)
	assert.Equal(t, []string{"add", `{"a": 5, "b": 3}`}, route.Args)

	route, err = ParseLine(`p get review_code code="print(1)" language=python`)
	require.NoError(t, err)
	assert.Equal(t, []string{"review_code", "code=print(1)", "language=python"}, route.Args)

	_, err = ParseLine(`t call add "unterminated`)
	require.Error(t, err)
	assert.Equal(t, cli.KindParse, cli.KindOf(err))
}

func TestRoute(t *testing.T) {
	route := Route{Namespace: NamespaceTool, Action: ActionCall, Args: []string{"add", "a=1", "b=2"}}
	assert.Equal(t, "add", route.Target())
	assert.Equal(t, []string{"a=1", "b=2"}, route.ParamTokens())
	assert.Equal(t, "tool call add a=1 b=2", route.String())

	empty := DefaultRoute
	assert.Equal(t, "", empty.Target())
	assert.Nil(t, empty.ParamTokens())
	assert.Equal(t, "tool list", empty.String())
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, []string{"t", "tool", "tools"}, NamespaceTool.Aliases())
	assert.Equal(t, []Action{ActionList, ActionRead}, NamespaceResource.Actions())
	assert.True(t, NamespacePrompt.Accepts(ActionGet))
	assert.False(t, NamespacePrompt.Accepts(ActionCall))

	for _, alias := range []string{"p", "prompt", "prompts"} {
		ns, ok := ResolveNamespace(alias)
		assert.True(t, ok)
		assert.Equal(t, NamespacePrompt, ns)
	}
	_, ok := ResolveNamespace("server")
	assert.False(t, ok)
}

func TestUsage(t *testing.T) {
	usage := Usage()
	assert.Contains(t, usage, "t list")
	assert.Contains(t, usage, "t call <name> [params]")
	assert.Contains(t, usage, "r read <uri>")
	assert.Contains(t, usage, "p get <name> [params]")
}
