package domain

import (
	"errors"
	"time"
)

// SessionTTL is the fixed lifetime of a session issued by login.
const SessionTTL = 7 * 24 * time.Hour

var ErrSessionNotFound = errors.New("session not found")

// Session is a credential-free proof of identity owned by one user. Many
// sessions may point at the same user.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ValidAt reports whether the session is still usable at now. A session whose
// expiry equals now is already expired.
func (s *Session) ValidAt(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	SessionID string
	User      *UserView
}
