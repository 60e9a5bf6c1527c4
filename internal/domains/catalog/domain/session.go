package domain

import "time"

// Session is a logged-in visitor, keyed by the cookie token.
type Session struct {
	Token     string
	Name      string
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
