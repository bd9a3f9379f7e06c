package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is an opaque bearer token mapped to a user. Tokens are only
// valid while the current time is before ExpiresAt; stale tokens are
// never swept, they just fail lookup.
type Session struct {
	Token     string    `json:"session_token"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
