package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-dog-finder/internal/domains/session/domain"
)

var (
	// ErrRejected means the service answered and refused the credentials.
	ErrRejected = errors.New("credentials rejected")
	// ErrUnreachable means no answer was received.
	ErrUnreachable = errors.New("auth service unreachable")
)

// AuthAPI is the remote side of login and logout. Implementations map their failures onto
// ErrRejected and ErrUnreachable.
type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) error
	Logout(ctx context.Context) error
}
