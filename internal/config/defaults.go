package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultTimeout bounds the handshake and every request.
	DefaultTimeout = 30 * time.Second

	historyFileName = "history"
)

// osUserCacheDir is swapped in tests.
var osUserCacheDir = os.UserCacheDir

// GetDefaultConfig returns the configuration used when no file exists.
func GetDefaultConfig() Config {
	return Config{
		Timeout:     DefaultTimeout,
		HistoryFile: defaultHistoryFile(),
	}
}

// defaultHistoryFile places REPL history in the user cache directory, or
// returns empty to disable history when there is none.
func defaultHistoryFile() string {
	dir, err := osUserCacheDir()
	if err != nil || dir == "" {
		return ""
	}
	return filepath.Join(dir, "mcpie", historyFileName)
}
