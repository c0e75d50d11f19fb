package domain

import (
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Session is the registry-form session record: one row per session id,
// so concurrent logins never read-modify-write a shared collection.
type Session struct {
	ID         string
	AccountID  string
	RememberMe bool
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
