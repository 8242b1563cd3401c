package params

import "time"

const (
	ServerBodyLimit    = 1048576
	ServerIdleTimeout  = 30 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 10 * time.Second

	// SessionExpiration is how long an idle login session is kept.
	SessionExpiration = 24 * time.Hour

	// ResetTokenValidity is how long a password reset link stays redeemable.
	ResetTokenValidity = 1 * time.Hour
)
