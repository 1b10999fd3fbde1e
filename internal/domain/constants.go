package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for secrets files (rw-------)
	SecureFilePermissions = 0o600
	// SharedFilePermissions is the permission for host config files read
	// by other daemons (rw-r--r--)
	SharedFilePermissions = 0o644
)

// Timing constants
const (
	// SettleDelay is the fixed pause between issuing a service start or
	// restart and the single status poll that follows. There is no retry
	// loop: one delay, one check.
	SettleDelay = 2 * time.Second
	// DefaultProbeTimeout bounds each single-shot HTTP health probe.
	DefaultProbeTimeout = 5 * time.Second
	// DefaultRestartSec is the supervisor backoff between automatic
	// restarts of a crashed service.
	DefaultRestartSec = 10
)

// History constants
const (
	// DefaultHistoryLimit is the default number of run records to display
	DefaultHistoryLimit = 20
)

// JournalTailLines is how much of the service journal is surfaced when a
// start or restart fails.
const JournalTailLines = 50
