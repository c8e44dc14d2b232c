package utils

// Token and session time constants
const (
	// AccessTokenTTLSeconds is the time-to-live for access tokens in seconds (3600 seconds = 1 hour)
	AccessTokenTTLSeconds = 3600
)
