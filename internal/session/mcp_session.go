package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"mcpie/internal/cli"
	"mcpie/internal/command"
	"mcpie/internal/document"
	"mcpie/pkg/logging"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	// ClientName is announced to servers during the handshake.
	ClientName = "mcpie"
	// DefaultTimeout bounds the handshake and every request.
	DefaultTimeout = 30 * time.Second
)

// ClientVersion is announced to servers during the handshake. It is set
// from the build version at startup.
var ClientVersion = "dev"

// ClientFactory creates an unconnected mcp-go client for a target. The
// session performs the handshake itself.
type ClientFactory func(ctx context.Context, target Target) (client.MCPClient, error)

// ServerInfo describes the server after a successful handshake.
type ServerInfo struct {
	Name            string
	Version         string
	ProtocolVersion string
}

// Option configures an MCPSession.
type Option func(*MCPSession)

// WithTimeout overrides DefaultTimeout. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(s *MCPSession) { s.timeout = d }
}

// WithClientFactory replaces the transport-based client construction.
func WithClientFactory(f ClientFactory) Option {
	return func(s *MCPSession) { s.factory = f }
}

// WithStderr sets where the stderr of a stdio server is copied. Nil
// discards it.
func WithStderr(w io.Writer) Option {
	return func(s *MCPSession) { s.stderr = w }
}

// MCPSession is a Session backed by an mcp-go client.
type MCPSession struct {
	target  Target
	factory ClientFactory
	timeout time.Duration
	stderr  io.Writer

	mu      sync.Mutex
	client  client.MCPClient
	info    ServerInfo
	tools   []mcp.Tool
	prompts []mcp.Prompt
}

var _ Session = (*MCPSession)(nil)

// New returns a session for target. Nothing is started until Connect.
func New(target Target, opts ...Option) *MCPSession {
	s := &MCPSession{
		target:  target,
		factory: NewClient,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Target returns the target the session connects to.
func (s *MCPSession) Target() Target {
	return s.target
}

// ServerInfo returns what the server reported during the handshake.
func (s *MCPSession) ServerInfo() ServerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// NewClient builds an mcp-go client for the target's transport. Stdio
// clients start their subprocess immediately; SSE clients are started
// here; streamable HTTP needs no start.
func NewClient(ctx context.Context, target Target) (client.MCPClient, error) {
	switch target.Transport {
	case TransportStdio:
		env := make([]string, 0, len(target.Env))
		for k, v := range target.Env {
			env = append(env, fmt.Sprintf("%s=%s", k, v))
		}
		sort.Strings(env)
		c, err := client.NewStdioMCPClient(target.Command, env, target.Args...)
		if err != nil {
			return nil, fmt.Errorf("failed to start server process: %w", err)
		}
		return c, nil

	case TransportStreamableHTTP:
		var opts []transport.StreamableHTTPCOption
		if len(target.Headers) > 0 {
			opts = append(opts, transport.WithHTTPHeaders(target.Headers))
		}
		c, err := client.NewStreamableHttpClient(target.URL, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create streamable HTTP client: %w", err)
		}
		return c, nil

	case TransportSSE:
		var opts []transport.ClientOption
		if len(target.Headers) > 0 {
			opts = append(opts, transport.WithHeaders(target.Headers))
		}
		c, err := client.NewSSEMCPClient(target.URL, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create SSE client: %w", err)
		}
		if err := c.Start(ctx); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to start SSE transport: %w", err)
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unsupported transport %q", target.Transport)
	}
}

// Connect creates the client and performs the MCP handshake. Calling it on
// a connected session is a no-op.
func (s *MCPSession) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return nil
	}

	endpoint := s.target.String()
	logging.Debug("Session", "Connecting to %s over %s", endpoint, s.target.Transport)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	c, err := s.factory(ctx, s.target)
	if err != nil {
		return s.connectError(ctx, err)
	}
	s.drainStderr(c)

	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: ClientName, Version: ClientVersion}
	req.Params.Capabilities = mcp.ClientCapabilities{}

	result, err := c.Initialize(ctx, req)
	if err != nil {
		if closeErr := c.Close(); closeErr != nil {
			logging.Debug("Session", "Error closing failed client for %s: %v", endpoint, closeErr)
		}
		return s.connectError(ctx, fmt.Errorf("failed to initialize MCP protocol: %w", err))
	}

	s.client = c
	s.info = ServerInfo{
		Name:            result.ServerInfo.Name,
		Version:         result.ServerInfo.Version,
		ProtocolVersion: result.ProtocolVersion,
	}
	logging.Debug("Session", "Connected to %s %s (protocol %s)", s.info.Name, s.info.Version, s.info.ProtocolVersion)
	return nil
}

func (s *MCPSession) connectError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return cli.ErrInterrupted
	}
	return cli.ClassifyConnectionError(err, s.target.String())
}

// drainStderr copies the stderr of a stdio server so the child never
// blocks on a full pipe.
func (s *MCPSession) drainStderr(c client.MCPClient) {
	concrete, ok := c.(*client.Client)
	if !ok {
		return
	}
	r, ok := client.GetStderr(concrete)
	if !ok || r == nil {
		return
	}
	dst := s.stderr
	if dst == nil {
		dst = io.Discard
	}
	go func() {
		_, _ = io.Copy(dst, r)
	}()
}

// Disconnect closes the client. Errors are logged, not returned.
func (s *MCPSession) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return
	}
	if err := s.client.Close(); err != nil {
		logging.Debug("Session", "Error closing client for %s: %v", s.target.String(), err)
	}
	s.client = nil
	s.tools = nil
	s.prompts = nil
}

// List returns the tools, resources or prompts offered by the server.
func (s *MCPSession) List(ctx context.Context, ns command.Namespace) ([]*document.Object, error) {
	c, err := s.connected()
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var items []any
	switch ns {
	case command.NamespaceTool:
		result, err := c.ListTools(ctx, mcp.ListToolsRequest{})
		if err != nil {
			return nil, s.requestError(ctx, "failed to list tools", err)
		}
		s.mu.Lock()
		s.tools = result.Tools
		s.mu.Unlock()
		for _, t := range result.Tools {
			items = append(items, t)
		}
	case command.NamespaceResource:
		result, err := c.ListResources(ctx, mcp.ListResourcesRequest{})
		if err != nil {
			return nil, s.requestError(ctx, "failed to list resources", err)
		}
		for _, r := range result.Resources {
			items = append(items, r)
		}
	case command.NamespacePrompt:
		result, err := c.ListPrompts(ctx, mcp.ListPromptsRequest{})
		if err != nil {
			return nil, s.requestError(ctx, "failed to list prompts", err)
		}
		s.mu.Lock()
		s.prompts = result.Prompts
		s.mu.Unlock()
		for _, p := range result.Prompts {
			items = append(items, p)
		}
	default:
		return nil, cli.NewParseError("unknown namespace %q", ns)
	}

	objects := make([]*document.Object, 0, len(items))
	for _, item := range items {
		obj, err := document.FromValue(item)
		if err != nil {
			return nil, cli.NewProtocolError(fmt.Sprintf("failed to decode %s", ns), err)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

// Call invokes the named tool. Positional arguments are bound to the
// tool's parameters, required ones first.
func (s *MCPSession) Call(ctx context.Context, name string, args command.Arguments) (*document.Object, error) {
	c, err := s.connected()
	if err != nil {
		return nil, err
	}

	named := args.Named
	if len(args.Positional) > 0 {
		params, err := s.toolParameters(ctx, name)
		if err != nil {
			return nil, err
		}
		if named, err = bindPositional("tool", name, params, args); err != nil {
			return nil, err
		}
	}
	if named == nil {
		named = map[string]any{}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = named

	result, err := c.CallTool(ctx, req)
	if err != nil {
		return nil, s.requestError(ctx, fmt.Sprintf("failed to call tool %q", name), err)
	}
	return decodeResult(result, "tool result")
}

// Read fetches the resource at uri.
func (s *MCPSession) Read(ctx context.Context, uri string) (*document.Object, error) {
	c, err := s.connected()
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri

	result, err := c.ReadResource(ctx, req)
	if err != nil {
		return nil, s.requestError(ctx, fmt.Sprintf("failed to read resource %q", uri), err)
	}
	return decodeResult(result, "resource")
}

// Get renders the named prompt. Prompt arguments are strings; other values
// are sent in their JSON spelling.
func (s *MCPSession) Get(ctx context.Context, name string, args command.Arguments) (*document.Object, error) {
	c, err := s.connected()
	if err != nil {
		return nil, err
	}

	named := args.Named
	if len(args.Positional) > 0 {
		params, err := s.promptParameters(ctx, name)
		if err != nil {
			return nil, err
		}
		if named, err = bindPositional("prompt", name, params, args); err != nil {
			return nil, err
		}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req := mcp.GetPromptRequest{}
	req.Params.Name = name
	req.Params.Arguments = command.StringArguments(named)

	result, err := c.GetPrompt(ctx, req)
	if err != nil {
		return nil, s.requestError(ctx, fmt.Sprintf("failed to get prompt %q", name), err)
	}
	return decodeResult(result, "prompt")
}

func (s *MCPSession) connected() (client.MCPClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil, &cli.ConnectionError{
			Endpoint: s.target.String(),
			Type:     cli.ConnectionErrorUnknown,
			Reason:   errors.New("not connected"),
		}
	}
	return s.client, nil
}

func (s *MCPSession) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// requestError sorts a failed request into interruption, a lost
// connection or an error reported by the server.
func (s *MCPSession) requestError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled):
		return cli.ErrInterrupted
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrClosedPipe), errors.Is(err, io.ErrUnexpectedEOF):
		return &cli.ConnectionError{Endpoint: s.target.String(), Type: cli.ConnectionErrorProcess, Reason: err}
	}
	if connErr := cli.ClassifyConnectionError(err, s.target.String()); connErr.Type != cli.ConnectionErrorUnknown {
		return connErr
	}
	return cli.NewProtocolError(op, err)
}

func (s *MCPSession) toolParameters(ctx context.Context, name string) ([]string, error) {
	s.mu.Lock()
	cached := s.tools
	s.mu.Unlock()
	if cached == nil {
		if _, err := s.List(ctx, command.NamespaceTool); err != nil {
			return nil, err
		}
		s.mu.Lock()
		cached = s.tools
		s.mu.Unlock()
	}

	for _, tool := range cached {
		if tool.Name != name {
			continue
		}
		params := append([]string{}, tool.InputSchema.Required...)
		seen := make(map[string]bool, len(params))
		for _, p := range params {
			seen[p] = true
		}
		var optional []string
		for p := range tool.InputSchema.Properties {
			if !seen[p] {
				optional = append(optional, p)
			}
		}
		sort.Strings(optional)
		return append(params, optional...), nil
	}
	return nil, cli.NewParseError("unknown tool %q: use key=value or JSON arguments", name)
}

func (s *MCPSession) promptParameters(ctx context.Context, name string) ([]string, error) {
	s.mu.Lock()
	cached := s.prompts
	s.mu.Unlock()
	if cached == nil {
		if _, err := s.List(ctx, command.NamespacePrompt); err != nil {
			return nil, err
		}
		s.mu.Lock()
		cached = s.prompts
		s.mu.Unlock()
	}

	for _, prompt := range cached {
		if prompt.Name != name {
			continue
		}
		params := make([]string, 0, len(prompt.Arguments))
		for _, arg := range prompt.Arguments {
			params = append(params, arg.Name)
		}
		return params, nil
	}
	return nil, cli.NewParseError("unknown prompt %q: use key=value or JSON arguments", name)
}

// bindPositional assigns positional values to the parameters in order,
// skipping parameters that were already given by name.
func bindPositional(kind, name string, params []string, args command.Arguments) (map[string]any, error) {
	named := make(map[string]any, len(args.Named)+len(args.Positional))
	for k, v := range args.Named {
		named[k] = v
	}

	i := 0
	for _, p := range params {
		if i == len(args.Positional) {
			break
		}
		if _, taken := named[p]; taken {
			continue
		}
		named[p] = args.Positional[i]
		i++
	}
	if i < len(args.Positional) {
		return nil, cli.NewParseError("too many positional arguments for %s %q", kind, name)
	}
	return named, nil
}

func decodeResult(v any, what string) (*document.Object, error) {
	obj, err := document.FromValue(v)
	if err != nil {
		return nil, cli.NewProtocolError(fmt.Sprintf("failed to decode %s", what), err)
	}
	return obj, nil
}
