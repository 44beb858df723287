package config

import "time"

// TimeoutConfig holds timeout settings for database access.
type TimeoutConfig struct {
	// Busy is how long SQLite waits on a locked database before failing.
	// Default: 5s
	Busy time.Duration

	// Command bounds a single CLI command's database work. Zero disables it.
	// Default: 30s
	Command time.Duration
}

// DefaultTimeoutConfig returns the default timeout configuration
func DefaultTimeoutConfig() *TimeoutConfig {
	return &TimeoutConfig{
		Busy:    5 * time.Second,
		Command: 30 * time.Second,
	}
}

// global instance that can be set at startup
var globalTimeouts = DefaultTimeoutConfig()

// SetGlobalTimeouts sets the global timeout configuration
func SetGlobalTimeouts(cfg *TimeoutConfig) {
	globalTimeouts = cfg
}

// GetTimeouts returns the global timeout configuration
func GetTimeouts() *TimeoutConfig {
	return globalTimeouts
}
