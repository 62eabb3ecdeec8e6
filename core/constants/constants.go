package constants

import "time"

// Request and sync timeouts
const (
	DefaultRequestTimeout = 10 * time.Second
	// SyncRequestTimeout bounds a single RemoteStore round trip. A timeout is
	// treated the same as a hard network failure.
	SyncRequestTimeout = 8 * time.Second
)

// Retry policy for queued sync operations
const (
	RetryBaseDelay            = 1 * time.Second
	RetryMaxDelay             = 30 * time.Second
	RetryMaxImmediateAttempts = 3
)

// Connectivity probe
const (
	ConnectivityProbeInterval = 15 * time.Second
	ConnectivityProbeTimeout  = 3 * time.Second
)

// Database pool settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Local key namespace. Must remain stable across versions.
const (
	StorageKeyTeams               = "teams"
	StorageKeyMonthlyAvailability = "monthlyAvailability"
	StorageKeyCurrentTeamID       = "currentTeamId"
	StorageKeyCurrentUserID       = "currentUserId"
	StorageKeyLanguage            = "language"
)

// Remote collections
const (
	CollectionTeams        = "teams"
	CollectionAvailability = "availability"
)

// Team constraints
const (
	TeamNameMaxLength = 50
)

// Slot grid
const (
	HoursPerDay = 24
)

// Echo context keys
const (
	ContextRequestID = "request_id"
)
