package domain

import "strings"

// Credentials identify a user to the adoption service. There is no password: the service accepts any
// name with a well-formed email.
type Credentials struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// Normalize trims surrounding whitespace.
func (c Credentials) Normalize() Credentials {
	return Credentials{Name: strings.TrimSpace(c.Name), Email: strings.TrimSpace(c.Email)}
}

// UserSession is the logged-in identity. The zero value is a signed-out session.
type UserSession struct {
	Name          string
	Email         string
	Authenticated bool
}

// EndReason says why a session stopped being authenticated.
type EndReason string

const (
	EndLogout  EndReason = "logout"
	EndExpired EndReason = "expired"
)
