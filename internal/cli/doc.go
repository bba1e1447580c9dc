// Package cli holds the pieces shared by mcpie's command-line surface: the
// common flag set and the structured error kinds that decide exit codes.
//
// # Flags
//
// RegisterCommonFlags binds the flags every run understands onto a cobra
// command. CommandFlags.ToOutputConfig turns them into the formatting
// configuration, applying the default for the run mode:
//
//	flags := &cli.CommandFlags{}
//	cli.RegisterCommonFlags(rootCmd, flags)
//	...
//	outCfg, err := flags.ToOutputConfig(rootCmd, interactive, cfg.Output)
//
// -e/--env and -H/--header take KEY:value pairs, split on the first colon.
//
// # Errors
//
// Error carries an ErrorKind (parse, connection, protocol, decode,
// interrupted). ConnectionError describes a failure to reach a server and
// ClassifyConnectionError sorts raw transport errors into TLS, DNS, timeout,
// network and process failures.
package cli
