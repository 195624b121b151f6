package constants

import "time"

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
	WebhookTimeout  = 10 * time.Second
)

const (
	DBMaxOpenConns    = 1
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// DocumentKey is the single row the league document lives in.
	DocumentKey = "league"

	IDAlphabet = "0123456789abcdef"
	IDLength   = 8
)

const (
	DefaultRecentMatches = 10
	MaxRecentMatches     = 50
	DefaultHistoryLimit  = 10
)

const (
	WebhookRequestsPerSecond = 1
	WebhookBurst             = 5
	WebhookMaxAttempts       = 3
)
