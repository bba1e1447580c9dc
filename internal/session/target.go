package session

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"mcpie/pkg/logging"

	"github.com/google/shlex"
)

// Transport names how mcpie talks to a server.
type Transport string

const (
	// TransportStdio runs the server as a subprocess speaking over stdin/stdout.
	TransportStdio Transport = "stdio"
	// TransportStreamableHTTP is the streamable HTTP transport.
	TransportStreamableHTTP Transport = "streamable-http"
	// TransportSSE is the Server-Sent Events transport.
	TransportSSE Transport = "sse"
)

// interpreters maps script extensions to the program that runs them.
var interpreters = map[string]string{
	".py": "python",
	".js": "node",
}

// Target describes where a server lives and how to reach it.
type Target struct {
	Transport Transport
	// URL is the endpoint for HTTP transports.
	URL string
	// Command and Args start a stdio server.
	Command string
	Args    []string
	// Env is added to the environment of a stdio server.
	Env map[string]string
	// Headers are sent with every HTTP request.
	Headers map[string]string
}

// ParseTarget interprets the SERVER argument. http(s) URLs use streamable
// HTTP, or SSE when forceSSE is set or the path ends in /sse. Anything else
// is a command line for a stdio server; a lone .py or .js script is run
// through its interpreter.
func ParseTarget(server string, forceSSE bool, env, headers map[string]string) (Target, error) {
	server = strings.TrimSpace(server)
	if server == "" {
		return Target{}, fmt.Errorf("server target is empty")
	}

	if strings.HasPrefix(server, "http://") || strings.HasPrefix(server, "https://") {
		u, err := url.Parse(server)
		if err != nil || u.Host == "" {
			return Target{}, fmt.Errorf("invalid server URL %q", server)
		}
		transport := TransportStreamableHTTP
		if forceSSE || strings.HasSuffix(strings.TrimRight(u.Path, "/"), "/sse") {
			transport = TransportSSE
		}
		if len(env) > 0 {
			logging.Warn("Session", "Ignoring environment variables for HTTP server %s", server)
		}
		return Target{Transport: transport, URL: server, Headers: headers}, nil
	}

	tokens, err := shlex.Split(server)
	if err != nil {
		return Target{}, fmt.Errorf("invalid server command %q: %w", server, err)
	}
	if len(tokens) == 0 {
		return Target{}, fmt.Errorf("server target is empty")
	}
	if forceSSE {
		logging.Warn("Session", "--force-sse has no effect on stdio server %s", server)
	}
	if len(headers) > 0 {
		logging.Warn("Session", "Ignoring HTTP headers for stdio server %s", server)
	}

	if len(tokens) == 1 {
		if interpreter, ok := interpreters[strings.ToLower(filepath.Ext(tokens[0]))]; ok {
			tokens = []string{interpreter, tokens[0]}
		}
	}
	return Target{
		Transport: TransportStdio,
		Command:   tokens[0],
		Args:      tokens[1:],
		Env:       env,
	}, nil
}

// String returns the URL or the command line.
func (t Target) String() string {
	if t.Transport == TransportStdio {
		return strings.TrimSpace(t.Command + " " + strings.Join(t.Args, " "))
	}
	return t.URL
}
