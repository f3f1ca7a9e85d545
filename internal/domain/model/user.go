package model

import "time"

// User mirrors the account entity owned by the web application. The payment
// core only reads it: identity for ownership, email/name for notification
// rendering, and the activity timestamps the stall sweep keys on.
type User struct {
	ID             string // UUID
	Email          string
	Name           string
	IsAdmin        bool
	LastLoginAt    *time.Time
	LastProgressAt *time.Time // most recent curriculum module access
	CreatedAt      time.Time
}
