// Package config handles the tracker's directory discovery and settings.
package config

const (
	// DefaultDir is the directory name searched for from the working directory upward.
	DefaultDir = ".deadliner"

	// ConfigFileName is the name of the config file within the deadliner directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2

	// DefaultRefreshInterval is how often visible progress is recomputed.
	DefaultRefreshInterval = "1s"
	// DefaultDeadline is the offset backfilled into stored tasks without a deadline.
	DefaultDeadline = "24h"
	// DefaultProgressWidth is the progress bar width in cells.
	DefaultProgressWidth = 40

	// Default progress bar gradient and expired colour.
	DefaultGradientStart = "#5A56E0"
	DefaultGradientEnd   = "#EE6FF8"
	DefaultExpiredColor  = "196"
)

// Storage backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Backends lists the accepted storage.backend values.
var Backends = []string{BackendFile, BackendSQLite, BackendMemory}

// DefaultDataFile returns the data file name used by backend.
func DefaultDataFile(backend string) string {
	switch backend {
	case BackendSQLite:
		return "tasks.db"
	case BackendMemory:
		return ""
	default:
		return "tasks.json"
	}
}
