// Package exampleserver is a small MCP server that offers a few tools, two
// resources and a prompt. mcpie can run it over stdio for demos and the
// tests use it in process.
package exampleserver

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode"

	"mcpie/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// Name is the server name reported during the handshake.
	Name = "Example Server"
	// Version is the server version reported during the handshake.
	Version = "1.0.0"

	// ConfigURI addresses the static configuration resource.
	ConfigURI = "config://app"
	// GreetingTemplate addresses the per-name greeting resource.
	GreetingTemplate = "greeting://{name}"
)

// appConfig is served as the config://app resource.
const appConfig = `{
    "app_name": "Example App",
    "version": "1.0.0",
    "features": ["feature1", "feature2"],
    "debug": false
}`

// New builds the example server with every tool, resource and prompt
// registered.
func New() *server.MCPServer {
	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
	)

	s.AddTool(mcp.NewTool("add",
		mcp.WithDescription("Add two numbers"),
		mcp.WithNumber("a", mcp.Required(), mcp.Description("First addend")),
		mcp.WithNumber("b", mcp.Required(), mcp.Description("Second addend")),
	), handleAdd)

	s.AddTool(mcp.NewTool("process_text",
		mcp.WithDescription("Process text with various operations."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to process")),
		mcp.WithString("operation",
			mcp.Description("One of uppercase, lowercase, title or reverse"),
			mcp.DefaultString("uppercase"),
		),
	), handleProcessText)

	s.AddTool(mcp.NewTool("filter_list",
		mcp.WithDescription("Filter a list based on conditions."),
		mcp.WithArray("items", mcp.Required(), mcp.Description("Values to filter")),
		mcp.WithString("condition",
			mcp.Description("One of all, even, odd or positive"),
			mcp.DefaultString("all"),
		),
	), handleFilterList)

	s.AddResource(mcp.NewResource(ConfigURI, "get_config",
		mcp.WithResourceDescription("Static configuration data"),
		mcp.WithMIMEType("text/plain"),
	), handleConfig)

	s.AddResourceTemplate(mcp.NewResourceTemplate(GreetingTemplate, "get_greeting",
		mcp.WithTemplateDescription("Get a personalized greeting"),
		mcp.WithTemplateMIMEType("text/plain"),
	), handleGreeting)

	s.AddPrompt(mcp.NewPrompt("review_code",
		mcp.WithPromptDescription("Review code and provide feedback."),
		mcp.WithArgument("code", mcp.ArgumentDescription("Code to review"), mcp.RequiredArgument()),
		mcp.WithArgument("language", mcp.ArgumentDescription("Language of the code, python by default")),
	), handleReviewCode)

	return s
}

// ServeStdio runs the example server on stdin/stdout until the input closes.
func ServeStdio() error {
	logging.Debug("ExampleServer", "Serving %s %s on stdio", Name, Version)
	return server.ServeStdio(New())
}

func handleAdd(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := req.RequireFloat("a")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, err := req.RequireFloat("b")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return structured(number(a + b))
}

func handleProcessText(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return structured(ProcessText(text, req.GetString("operation", "uppercase")))
}

func handleFilterList(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := req.GetArguments()["items"]
	if !ok {
		return mcp.NewToolResultError(`required argument "items" not found`), nil
	}
	items, ok := raw.([]any)
	if !ok {
		return mcp.NewToolResultError(`argument "items" is not a list`), nil
	}
	return structured(FilterList(items, req.GetString("condition", "all")))
}

func handleConfig(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "text/plain", Text: appConfig},
	}, nil
}

func handleGreeting(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	name := strings.TrimPrefix(req.Params.URI, "greeting://")
	if name == "" {
		return nil, fmt.Errorf("greeting resource needs a name")
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "text/plain", Text: Greeting(name)},
	}, nil
}

func handleReviewCode(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	code, ok := req.Params.Arguments["code"]
	if !ok {
		return nil, fmt.Errorf("missing required argument: code")
	}
	language := req.Params.Arguments["language"]
	if language == "" {
		language = "python"
	}
	return mcp.NewGetPromptResult(
		"Review code and provide feedback.",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(ReviewPrompt(code, language))),
		},
	), nil
}

// structured returns v both as JSON text content and as the "result" member
// of the structured content.
func structured(v any) (*mcp.CallToolResult, error) {
	text, ok := v.(string)
	if !ok {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tool result: %w", err)
		}
		text = string(data)
	}
	return mcp.NewToolResultStructured(map[string]any{"result": v}, text), nil
}

// number returns f as an int64 when it has no fractional part.
func number(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}

// Greeting is the text of the greeting://{name} resource.
func Greeting(name string) string {
	return fmt.Sprintf("Hello, %s! Welcome to the MCP interactive client.", name)
}

// ReviewPrompt is the text of the review_code prompt.
func ReviewPrompt(code, language string) string {
	return fmt.Sprintf("Please review this %s code:\n\n%s\n\nProvide feedback on style, logic, and potential improvements.", language, code)
}

// ProcessText applies operation to text.
func ProcessText(text, operation string) string {
	switch operation {
	case "uppercase":
		return strings.ToUpper(text)
	case "lowercase":
		return strings.ToLower(text)
	case "title":
		return titleCase(text)
	case "reverse":
		runes := []rune(text)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return string(runes)
	default:
		return fmt.Sprintf("Unknown operation: %s", operation)
	}
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// FilterList keeps the items matching condition. Non-numeric items only
// survive "all"; an unknown condition keeps everything.
func FilterList(items []any, condition string) []any {
	var keep func(float64) bool
	switch condition {
	case "even":
		keep = func(f float64) bool { return f == math.Trunc(f) && math.Mod(f, 2) == 0 }
	case "odd":
		keep = func(f float64) bool { return f == math.Trunc(f) && math.Abs(math.Mod(f, 2)) == 1 }
	case "positive":
		keep = func(f float64) bool { return f > 0 }
	default:
		return items
	}

	out := []any{}
	for _, item := range items {
		f, ok := item.(float64)
		if ok && keep(f) {
			out = append(out, number(f))
		}
	}
	return out
}
