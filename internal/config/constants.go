package config

import "time"

// AuthCodeHeader is the request header carrying the tenant auth code.
const AuthCodeHeader = "TUPLEAP_AUTHCODE"

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

// Usage flush retry budget
const (
	FlushRetryBaseDelay  = 500 * time.Millisecond
	FlushMaxRetries      = 3
	FlushDBTimeout       = 30 * time.Second
	AccumulatorStopDrain = 10 * time.Second
)
