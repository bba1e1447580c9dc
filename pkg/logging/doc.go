// Package logging provides subsystem-tagged structured logging for mcpie,
// built on the standard slog package.
//
// Logs always go to stderr (or the writer passed to Init) so that rendered
// results on stdout remain machine readable in batch mode. By default only
// warnings and errors are shown; --verbose lowers the level to debug.
//
// # Usage
//
//	logging.Init(logging.LevelForVerbosity(verbose), logging.FormatText, os.Stderr)
//
//	logging.Debug("Session", "Connecting to %s", target)
//	logging.Error("Runner", err, "Command failed")
//
// An Entry carries fixed attributes for a run of related messages:
//
//	log := logging.With("Runner", slog.String("command_id", id))
//	log.Debug("Dispatching %s", route)
package logging
