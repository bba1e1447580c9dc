// Package session connects mcpie to one MCP server and exposes the handful
// of operations the command runner needs, with results in the generic
// ordered document shape.
package session

import (
	"context"

	"mcpie/internal/command"
	"mcpie/internal/document"
	"mcpie/pkg/logging"
)

// Session is one connection to an MCP server. It is owned by a single
// runner and serves one request at a time.
type Session interface {
	// Connect establishes the connection and performs the handshake.
	// Failures are reported as *cli.ConnectionError.
	Connect(ctx context.Context) error
	// Disconnect releases the connection. It is best effort and safe to
	// call more than once.
	Disconnect()
	// List returns the tools, resources or prompts offered by the server.
	List(ctx context.Context, ns command.Namespace) ([]*document.Object, error)
	// Call invokes a tool.
	Call(ctx context.Context, name string, args command.Arguments) (*document.Object, error)
	// Read fetches a resource by URI.
	Read(ctx context.Context, uri string) (*document.Object, error)
	// Get renders a prompt.
	Get(ctx context.Context, name string, args command.Arguments) (*document.Object, error)
}

// Describer is implemented by sessions that can report the connected
// server's identity.
type Describer interface {
	ServerInfo() ServerInfo
}

// With connects s, runs fn and disconnects again on every path out,
// including errors, panics and cancellation.
func With(ctx context.Context, s Session, fn func(ctx context.Context) error) error {
	if err := s.Connect(ctx); err != nil {
		s.Disconnect()
		return err
	}
	defer func() {
		logging.Debug("Session", "Tearing down session")
		s.Disconnect()
	}()
	return fn(ctx)
}
