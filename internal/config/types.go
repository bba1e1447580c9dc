package config

import "time"

// Config is the top-level configuration structure for mcpie.
type Config struct {
	Output      string                  `yaml:"output,omitempty"`      // Default output format, empty picks by mode
	Timeout     time.Duration           `yaml:"timeout,omitempty"`     // Handshake and request timeout (default: 30s)
	HistoryFile string                  `yaml:"historyFile,omitempty"` // REPL history (default: user cache dir)
	Servers     map[string]ServerConfig `yaml:"servers,omitempty"`     // Named server aliases
}

// ServerConfig describes one named server. Exactly one of URL and Command
// is set.
type ServerConfig struct {
	URL      string            `yaml:"url,omitempty"`
	Command  string            `yaml:"command,omitempty"` // Command line, shell-style quoting allowed
	Args     []string          `yaml:"args,omitempty"`    // Extra arguments appended to Command
	Env      map[string]string `yaml:"env,omitempty"`
	Headers  map[string]string `yaml:"headers,omitempty"`
	ForceSSE bool              `yaml:"forceSSE,omitempty"`
}

// Server returns the alias entry for name.
func (c Config) Server(name string) (ServerConfig, bool) {
	entry, ok := c.Servers[name]
	return entry, ok
}
