package application

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-dog-finder/internal/domains/catalog/domain"
	"github.com/Apurer/go-dog-finder/internal/domains/catalog/ports"
	"github.com/Apurer/go-dog-finder/internal/platform/validation"
)

// DefaultSessionTTL is how long a login stays valid.
const DefaultSessionTTL = time.Hour

// Service implements the catalog use cases behind the HTTP API.
type Service struct {
	repo      ports.Repository
	sessions  ports.SessionStore
	validator *validation.Validator
	ttl       time.Duration
	now       func() time.Time
	newToken  func() string
	pick      func(n int) int
}

type Option func(*Service)

// WithSessionTTL overrides DefaultSessionTTL.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock injects the time source used for session expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTokenSource injects the session token generator.
func WithTokenSource(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newToken = fn
		}
	}
}

// WithPicker injects how Match chooses among n candidates. It must return a value in [0, n).
func WithPicker(fn func(n int) int) Option {
	return func(s *Service) {
		if fn != nil {
			s.pick = fn
		}
	}
}

func NewService(repo ports.Repository, sessions ports.SessionStore, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		sessions:  sessions,
		validator: validation.New(),
		ttl:       DefaultSessionTTL,
		now:       time.Now,
		newToken:  uuid.NewString,
		pick:      rand.IntN,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

type loginInput struct {
	Name  string `json:"name" validate:"required,max=256"`
	Email string `json:"email" validate:"required,email"`
}

// Login opens a session for any well-formed name and email.
func (s *Service) Login(ctx context.Context, name, email string) (domain.Session, error) {
	in := loginInput{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	if err := s.validator.Validate(in); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	session := domain.Session{
		Token:     s.newToken(),
		Name:      in.Name,
		Email:     in.Email,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Logout forgets the token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a cookie token into a live session.
func (s *Service) Authenticate(ctx context.Context, token string) (domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Session{}, ErrUnauthenticated
	}
	session, err := s.sessions.Get(ctx, token)
	if errors.Is(err, ports.ErrNotFound) {
		return domain.Session{}, ErrUnauthenticated
	}
	if err != nil {
		return domain.Session{}, err
	}
	if session.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, token)
		return domain.Session{}, ErrUnauthenticated
	}
	return session, nil
}

func (s *Service) Breeds(ctx context.Context) ([]string, error) {
	return s.repo.Breeds(ctx)
}

// Search returns one page of ids. Size defaults to domain.DefaultSize.
func (s *Service) Search(ctx context.Context, q domain.Query) (domain.Page, error) {
	if q.Size == 0 {
		q.Size = domain.DefaultSize
	}
	if q.Size < 0 || q.Size > domain.MaxSize {
		return domain.Page{}, fmt.Errorf("%w: size must be between 1 and %d", ErrInvalidInput, domain.MaxSize)
	}
	if (q.AgeMin != nil && *q.AgeMin < 0) || (q.AgeMax != nil && *q.AgeMax < 0) {
		return domain.Page{}, mapError(domain.ErrNegativeAge)
	}
	if q.From < 0 {
		return domain.Page{}, mapError(domain.ErrInvalidCursor)
	}
	ids, total, err := s.repo.Search(ctx, q)
	if err != nil {
		return domain.Page{}, err
	}
	return domain.NewPage(q, ids, total), nil
}

// Hydrate returns the known records among ids, in the order the ids were given.
func (s *Service) Hydrate(ctx context.Context, ids []string) ([]domain.Dog, error) {
	if len(ids) > domain.MaxHydrate {
		return nil, ErrTooMany
	}
	if len(ids) == 0 {
		return []domain.Dog{}, nil
	}
	found, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return inOrder(ids, found), nil
}

// Match picks one of the known ids.
func (s *Service) Match(ctx context.Context, ids []string) (string, error) {
	if len(ids) == 0 {
		return "", fmt.Errorf("%w: at least one dog id is required", ErrInvalidInput)
	}
	if len(ids) > domain.MaxHydrate {
		return "", ErrTooMany
	}
	found, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return "", err
	}
	candidates := inOrder(ids, found)
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: none of the ids are in the catalog", ErrInvalidInput)
	}
	return candidates[s.pick(len(candidates))].ID, nil
}

func inOrder(ids []string, dogs []domain.Dog) []domain.Dog {
	byID := make(map[string]domain.Dog, len(dogs))
	for _, d := range dogs {
		byID[d.ID] = d
	}
	out := make([]domain.Dog, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		d, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, d)
	}
	return out
}

var _ ports.Service = (*Service)(nil)
