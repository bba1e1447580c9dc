package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name     string
		server   string
		forceSSE bool
		want     Target
	}{
		{
			name:   "streamable http",
			server: "http://localhost:8000/mcp",
			want:   Target{Transport: TransportStreamableHTTP, URL: "http://localhost:8000/mcp"},
		},
		{
			name:   "sse by path",
			server: "https://example.com/sse/",
			want:   Target{Transport: TransportSSE, URL: "https://example.com/sse/"},
		},
		{
			name:     "forced sse",
			server:   "http://localhost:8000/mcp",
			forceSSE: true,
			want:     Target{Transport: TransportSSE, URL: "http://localhost:8000/mcp"},
		},
		{
			name:   "python script",
			server: "example_server.py",
			want:   Target{Transport: TransportStdio, Command: "python", Args: []string{"example_server.py"}},
		},
		{
			name:   "node script",
			server: "server.JS",
			want:   Target{Transport: TransportStdio, Command: "node", Args: []string{"server.JS"}},
		},
		{
			name:   "command line",
			server: `uvx mcp-server-fetch --name "my server"`,
			want:   Target{Transport: TransportStdio, Command: "uvx", Args: []string{"mcp-server-fetch", "--name", "my server"}},
		},
		{
			name:   "plain binary",
			server: "./server",
			want:   Target{Transport: TransportStdio, Command: "./server", Args: []string{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTarget(tt.server, tt.forceSSE, nil, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTarget_CarriesEnvAndHeaders(t *testing.T) {
	env := map[string]string{"TOKEN": "abc"}
	headers := map[string]string{"Authorization": "Bearer x"}

	stdio, err := ParseTarget("server.py", false, env, headers)
	require.NoError(t, err)
	assert.Equal(t, env, stdio.Env)
	assert.Nil(t, stdio.Headers)

	http, err := ParseTarget("https://example.com/mcp", false, env, headers)
	require.NoError(t, err)
	assert.Equal(t, headers, http.Headers)
	assert.Nil(t, http.Env)
}

func TestParseTarget_Errors(t *testing.T) {
	for _, server := range []string{"", "   ", `"unterminated`, "http://"} {
		_, err := ParseTarget(server, false, nil, nil)
		assert.Error(t, err, "server %q", server)
	}
}

func TestTarget_String(t *testing.T) {
	assert.Equal(t, "python server.py", Target{Transport: TransportStdio, Command: "python", Args: []string{"server.py"}}.String())
	assert.Equal(t, "http://x/mcp", Target{Transport: TransportStreamableHTTP, URL: "http://x/mcp"}.String())
}
