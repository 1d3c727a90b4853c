package auth

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server-side record of an authenticated identity.
type Session struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSession creates a session for userID that lives for ttl.
func NewSession(userID uint, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
