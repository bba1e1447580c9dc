// Package config loads the optional mcpie user configuration.
//
// Configuration is read from a single directory, ~/.config/mcpie by default
// or the directory given with --config. A missing config.yaml means
// defaults; command-line flags always win over the file.
//
// # Configuration Structure
//
//	output: table            # default output format (json, pretty, table, yaml, raw)
//	timeout: 30s             # handshake and request timeout
//	historyFile: ~/.cache/mcpie/history
//	servers:
//	  example:
//	    command: python example_server.py
//	    env:
//	      DEBUG: "1"
//	  remote:
//	    url: https://mcp.example.com/mcp
//	    headers:
//	      Authorization: Bearer token
//
// Entries under servers are aliases: `mcpie example -- tool list` connects
// to the configured command.
//
// # Usage Examples
//
//	cfg, err := config.LoadConfig(config.DefaultConfigPath())
//	if err != nil {
//	    return err
//	}
//	if entry, ok := cfg.Server("example"); ok {
//	    fmt.Println(entry.Command)
//	}
package config
