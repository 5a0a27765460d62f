package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0o644
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultCommandTimeout bounds a single execute_command subprocess
	DefaultCommandTimeout = 30 * time.Second
	// DefaultHTTPClientTimeout is the timeout for generation API requests
	DefaultHTTPClientTimeout = 60 * time.Second
	// DefaultCacheTTL is how long cached generation responses stay valid
	DefaultCacheTTL = time.Hour
)

// Limit constants
const (
	// MaxCapturedOutputBytes bounds combined subprocess output per action
	MaxCapturedOutputBytes = 64 * 1024
	// DefaultMaxRounds limits the feedback loop per chat invocation
	DefaultMaxRounds = 5
	// DefaultMaxCacheEntries is the maximum number of cache entries
	DefaultMaxCacheEntries = 100
	// DefaultSnapshotMaxFiles bounds the directory listing in prompts
	DefaultSnapshotMaxFiles = 20
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
