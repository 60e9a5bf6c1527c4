package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/go-dog-finder/internal/domains/catalog/domain"
	"github.com/Apurer/go-dog-finder/internal/domains/catalog/ports"
)

// SessionStore keeps sessions in a sync.Map keyed by token.
type SessionStore struct {
	sessions sync.Map
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, session domain.Session) error {
	token := strings.TrimSpace(session.Token)
	if token == "" {
		return errors.New("session token is required")
	}
	s.sessions.Store(token, session)
	return nil
}

func (s *SessionStore) Get(_ context.Context, token string) (domain.Session, error) {
	v, ok := s.sessions.Load(strings.TrimSpace(token))
	if !ok {
		return domain.Session{}, ports.ErrNotFound
	}
	return v.(domain.Session), nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.sessions.Delete(strings.TrimSpace(token))
	return nil
}

func (s *SessionStore) PurgeExpired(_ context.Context) (int64, error) {
	now := s.now()
	var purged int64
	s.sessions.Range(func(key, value any) bool {
		if value.(domain.Session).Expired(now) {
			s.sessions.Delete(key)
			purged++
		}
		return true
	})
	return purged, nil
}

var _ ports.SessionStore = (*SessionStore)(nil)
