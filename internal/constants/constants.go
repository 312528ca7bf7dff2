package constants

import "time"

// Context keys shared between middleware and handlers.
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "user"
)

const (
	// MinPasswordLength is the minimum accepted password length at registration.
	MinPasswordLength = 6

	// TokenTTL is the lifetime of issued bearer tokens.
	TokenTTL = 7 * 24 * time.Hour

	// RecentActionLimit caps the per-project activity feed.
	RecentActionLimit = 20
)
