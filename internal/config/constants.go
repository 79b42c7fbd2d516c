package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Admission window around the scheduled time. A join is admitted within
// [scheduledAt-AdmissionWindow, scheduledAt+AdmissionWindow].
const AdmissionWindow = 15 * time.Minute

// Suggestions with the same content hash created within this window are
// suppressed unless the earlier record was acknowledged.
const SuggestionDedupWindow = 5 * time.Minute

// Bounded window handed to the analyzer.
const (
	TranscriptWindowSize = 8
	SuggestionListLimit  = 20
	SuggestionListWindow = 30 * time.Minute
)

// Outbound collaborator timeouts. None of these calls are retried here;
// retry policy belongs to the caller.
const (
	RegionProbeTimeout   = 3 * time.Second
	TransportCallTimeout = 5 * time.Second
	AnalyzerCallTimeout  = 30 * time.Second
)

// Default rate limiting
const DefaultRateLimitPerMin = 60
