// Package command parses mcpie command lines into routes.
//
// A command is a namespace (t/tool, r/resource, p/prompt), an action and
// its arguments:
//
//	tool call add a=5 b=3
//	r read config://app
//	p get review_code '{"code": "x = 1"}'
package command
