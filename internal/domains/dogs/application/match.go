package application

import (
	"context"
	"strings"
	"sync"

	"github.com/Apurer/go-dog-finder/internal/domains/dogs/domain"
	"github.com/Apurer/go-dog-finder/internal/domains/dogs/ports"
	apperrors "github.com/Apurer/go-dog-finder/internal/shared/errors"
)

// Matcher asks the catalog for the best dog among the favorites and keeps the latest answer.
type Matcher struct {
	catalog ports.Catalog
	expirer ports.SessionExpirer

	mu      sync.Mutex
	current domain.MatchResult
	has     bool
}

func NewMatcher(catalog ports.Catalog, expirer ports.SessionExpirer) *Matcher {
	if expirer == nil {
		expirer = ports.NoopExpirer
	}
	return &Matcher{catalog: catalog, expirer: expirer}
}

// RequestMatch sends the favorite ids in order, loads the chosen dog and shows it.
func (m *Matcher) RequestMatch(ctx context.Context, favorites []domain.Dog) (domain.MatchResult, error) {
	const op = "match.RequestMatch"
	if len(favorites) == 0 {
		return domain.MatchResult{}, apperrors.Validation(op, apperrors.MsgNeedFavorite)
	}
	ids := make([]string, 0, len(favorites))
	for _, d := range favorites {
		ids = append(ids, d.ID)
	}

	id, err := m.catalog.Match(ctx, ids)
	if err != nil {
		return domain.MatchResult{}, remoteError(ctx, m.expirer, op, "match", err)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.MatchResult{}, apperrors.Fetch(op, "match", ErrEmptyMatch)
	}

	dogs, err := m.catalog.Hydrate(ctx, []string{id})
	if err != nil {
		return domain.MatchResult{}, remoteError(ctx, m.expirer, op, "match", err)
	}
	aligned := domain.AlignToIDs([]string{id}, dogs)
	if len(aligned) == 0 {
		return domain.MatchResult{}, apperrors.Fetch(op, "match", ErrMatchNotFound)
	}

	result := domain.MatchResult{Dog: aligned[0], Visible: true}
	m.mu.Lock()
	m.current = result
	m.has = true
	m.mu.Unlock()
	return result, nil
}

// Dismiss hides the match. Favorites are not touched.
func (m *Matcher) Dismiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Dismissed()
}

// Current returns the latest match and whether there is one.
func (m *Matcher) Current() (domain.MatchResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.has
}

// Reset forgets the match.
func (m *Matcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = domain.MatchResult{}
	m.has = false
}
