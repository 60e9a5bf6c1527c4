package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-dog-finder/internal/domains/dogs/domain"
)

// ErrUnauthorized is returned by Catalog implementations when the session is no longer accepted.
var ErrUnauthorized = errors.New("catalog: session not accepted")

// Catalog is the remote dog catalog.
type Catalog interface {
	Breeds(ctx context.Context) ([]string, error)
	// Search returns ids in the order the catalog sorted them.
	Search(ctx context.Context, query domain.SearchQuery) (domain.SearchPage, error)
	// Hydrate loads records for ids. Order of the returned slice is not guaranteed.
	Hydrate(ctx context.Context, ids []string) ([]domain.Dog, error)
	// Match picks one id from ids.
	Match(ctx context.Context, ids []string) (string, error)
}

// SessionExpirer ends the session when the catalog answers unauthorized.
type SessionExpirer interface {
	Expire(ctx context.Context)
}

// NoopExpirer is used when no session is wired, e.g. in tools and tests.
var NoopExpirer SessionExpirer = noopExpirer{}

type noopExpirer struct{}

func (noopExpirer) Expire(context.Context) {}
