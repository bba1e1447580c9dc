package command

import (
	"encoding/json"
	"strings"

	"mcpie/internal/cli"
	"mcpie/internal/document"
)

// Arguments are the parameters of a call or get.
type Arguments struct {
	// Named holds key=value pairs or the members of a JSON object.
	Named map[string]any
	// Positional holds bare values in the order given; the session binds
	// them to the declared parameter order.
	Positional []any
}

// ParseArguments interprets the parameter tokens of a call or get. When the
// tokens together form a JSON object, its members are the named arguments.
// Otherwise key=value tokens and JSON object tokens are named arguments
// and other tokens are positional; values are JSON-coerced so 5 is a number and true a boolean.
// Text that is delimited like an object but is not valid JSON is a decode
// error rather than a positional value.
func ParseArguments(tokens []string) (Arguments, error) {
	args := Arguments{Named: map[string]any{}}
	if len(tokens) == 0 {
		return args, nil
	}

	joined := strings.TrimSpace(strings.Join(tokens, " "))
	if strings.HasPrefix(joined, "{") {
		obj, err := document.DecodeObject([]byte(joined))
		if err == nil {
			for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
				args.Named[pair.Key] = document.Plain(pair.Value)
			}
			return args, nil
		}
		if strings.HasSuffix(joined, "}") {
			return Arguments{}, cli.NewDecodeError("parameters", err)
		}
	}

	for _, token := range tokens {
		if strings.HasPrefix(token, "{") {
			if obj, err := document.DecodeObject([]byte(token)); err == nil {
				for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
					args.Named[pair.Key] = document.Plain(pair.Value)
				}
				continue
			}
		}
		key, value, found := strings.Cut(token, "=")
		if found && key != "" && !strings.ContainsAny(key, " {[\"") {
			args.Named[key] = coerce(stripQuotes(value))
			continue
		}
		args.Positional = append(args.Positional, coerce(token))
	}
	return args, nil
}

// coerce parses value as JSON when it is valid JSON, else keeps the string.
func coerce(value string) any {
	var v any
	if err := json.Unmarshal([]byte(value), &v); err == nil {
		return v
	}
	return value
}

// stripQuotes removes one pair of matching surrounding quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') ||
			(s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// StringArguments converts named arguments to strings, as prompt arguments
// require. Strings pass through; other values use their JSON spelling.
func StringArguments(named map[string]any) map[string]string {
	out := make(map[string]string, len(named))
	for k, v := range named {
		out[k] = document.String(v)
	}
	return out
}
