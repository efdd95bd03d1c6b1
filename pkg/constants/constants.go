// Package constants provides shared constants used throughout the nbcheck codebase.
// This includes timeouts, paging limits, file permissions and the defaults the
// CLI falls back to when neither flags nor environment provide a value.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the standard timeout for requests to the inventory API
	DefaultHTTPTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for a whole CLI run
	CommandTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants
const (
	// DefaultPageSize is the page size requested from paginated inventory endpoints
	DefaultPageSize = 1000

	// MaxPages bounds how many pages a single list call will follow
	MaxPages = 100
)

// Cache constants
const (
	// CacheTTL is how long looked-up reference data such as platform names is kept
	CacheTTL = 15 * time.Minute

	// CacheCleanupInterval is how often expired cache entries are purged
	CacheCleanupInterval = 5 * time.Minute
)

// Default values
const (
	// DefaultTag is the inventory tag selecting in-scope devices
	DefaultTag = "border"

	// DefaultInputFile is the observed-interface file read when --file is not given
	DefaultInputFile = "dry-ssh.json"

	// DefaultTypeRefFile is the interface type reference table path
	DefaultTypeRefFile = "netbox_interface_types.json"

	// InputDevicesKey is the top-level key of the observed-interface file
	InputDevicesKey = "devices"
)

// Environment variable names
const (
	EnvNetBoxURL     = "NETBOX_URL"
	EnvNetBoxToken   = "NETBOX_TOKEN"
	EnvNetBoxTag     = "NETBOX_TAG"
	EnvNetBoxTimeout = "NETBOX_TIMEOUT"
	EnvTypeRef       = "NBCHECK_TYPE_REF"
)

// Format constants
const (
	// TimeFormatHuman is a human-readable time format
	TimeFormatHuman = "Jan 2, 2006 at 3:04pm MST"
)
