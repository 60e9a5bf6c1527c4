package ports

import (
	"context"

	"github.com/Apurer/go-dog-finder/internal/domains/session/domain"
)

// EndListener is told once per session end.
type EndListener func(ctx context.Context, reason domain.EndReason)

// Service exposes the session use cases to the front end and to other contexts.
type Service interface {
	Login(ctx context.Context, name, email string) (domain.UserSession, error)
	Logout(ctx context.Context) error
	// Expire ends the session because a remote call answered unauthorized.
	Expire(ctx context.Context)
	OnEnd(listener EndListener)
	Current() domain.UserSession
	Authenticated() bool
}
