package application

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/go-dog-finder/internal/domains/session/domain"
	"github.com/Apurer/go-dog-finder/internal/domains/session/ports"
	"github.com/Apurer/go-dog-finder/internal/platform/validation"
	apperrors "github.com/Apurer/go-dog-finder/internal/shared/errors"
)

// Service owns the single UserSession of the process.
type Service struct {
	api       ports.AuthAPI
	validator *validation.Validator

	mu        sync.Mutex
	current   domain.UserSession
	listeners []ports.EndListener
}

func NewService(api ports.AuthAPI) *Service {
	return &Service{api: api, validator: validation.New()}
}

// Login checks the credentials locally, then with the service. The session only changes on success;
// a live session is then ended with EndLogout before the new one starts.
func (s *Service) Login(ctx context.Context, name, email string) (domain.UserSession, error) {
	const op = "session.Login"
	creds := domain.Credentials{Name: name, Email: email}.Normalize()
	if err := s.validator.Validate(creds); err != nil {
		return domain.UserSession{}, apperrors.Auth(op, apperrors.MsgInvalidCredentials, err)
	}
	if err := s.api.Login(ctx, creds); err != nil {
		if errors.Is(err, ports.ErrRejected) {
			return domain.UserSession{}, apperrors.Auth(op, apperrors.MsgInvalidCredentials, err)
		}
		return domain.UserSession{}, apperrors.Auth(op, apperrors.MsgNetworkUnavailable, err)
	}

	// A login over a live session ends it first, so nothing of the previous user carries over.
	s.end(ctx, domain.EndLogout)

	s.mu.Lock()
	s.current = domain.UserSession{Name: creds.Name, Email: creds.Email, Authenticated: true}
	session := s.current
	s.mu.Unlock()
	return session, nil
}

// Logout tells the service and ends the local session whatever the service answered.
// The remote error, if any, is returned after the session has ended.
func (s *Service) Logout(ctx context.Context) error {
	if !s.Authenticated() {
		return nil
	}
	remoteErr := s.api.Logout(ctx)
	s.end(ctx, domain.EndLogout)
	if remoteErr != nil {
		return apperrors.Fetch("session.Logout", "logout", remoteErr)
	}
	return nil
}

// Expire ends the session after an unauthorized answer. It does not call the service.
func (s *Service) Expire(ctx context.Context) {
	s.end(ctx, domain.EndExpired)
}

// OnEnd registers a listener for session ends.
func (s *Service) OnEnd(listener ports.EndListener) {
	if listener == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Current returns a snapshot of the session.
func (s *Service) Current() domain.UserSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Authenticated reports whether a session is active.
func (s *Service) Authenticated() bool {
	return s.Current().Authenticated
}

// end flips the session to signed out. Listeners run outside the lock and only on the
// authenticated to signed-out transition, so concurrent expiries notify once.
func (s *Service) end(ctx context.Context, reason domain.EndReason) {
	s.mu.Lock()
	if !s.current.Authenticated {
		s.mu.Unlock()
		return
	}
	s.current = domain.UserSession{}
	listeners := append([]ports.EndListener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(ctx, reason)
	}
}

var _ ports.Service = (*Service)(nil)
