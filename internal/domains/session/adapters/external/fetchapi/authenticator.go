package fetchapi

import (
	"context"
	"errors"
	"fmt"

	fetchclient "github.com/Apurer/go-dog-finder/internal/clients/http/fetchapi"
	"github.com/Apurer/go-dog-finder/internal/domains/session/domain"
	"github.com/Apurer/go-dog-finder/internal/domains/session/ports"
)

// Authenticator implements the auth port over the adoption service client.
type Authenticator struct {
	client *fetchclient.Client
}

// NewAuthenticator wires the HTTP client into the auth port.
func NewAuthenticator(client *fetchclient.Client) *Authenticator {
	return &Authenticator{client: client}
}

// Login signs in. Any HTTP answer other than success is a rejection; no answer is unreachable.
func (a *Authenticator) Login(ctx context.Context, creds domain.Credentials) error {
	if a == nil || a.client == nil {
		return errors.New("authenticator not configured")
	}
	return mapError(a.client.Login(ctx, creds.Name, creds.Email))
}

// Logout signs out.
func (a *Authenticator) Logout(ctx context.Context) error {
	if a == nil || a.client == nil {
		return errors.New("authenticator not configured")
	}
	return mapError(a.client.Logout(ctx))
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var statusErr *fetchclient.StatusError
	if errors.Is(err, fetchclient.ErrUnauthorized) || errors.As(err, &statusErr) {
		return fmt.Errorf("%w: %w", ports.ErrRejected, err)
	}
	return fmt.Errorf("%w: %w", ports.ErrUnreachable, err)
}

var _ ports.AuthAPI = (*Authenticator)(nil)
