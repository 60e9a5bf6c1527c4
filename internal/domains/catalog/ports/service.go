package ports

import (
	"context"

	"github.com/Apurer/go-dog-finder/internal/domains/catalog/domain"
)

// Service exposes the catalog use cases to the HTTP adapter.
type Service interface {
	Login(ctx context.Context, name, email string) (domain.Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (domain.Session, error)
	Breeds(ctx context.Context) ([]string, error)
	Search(ctx context.Context, q domain.Query) (domain.Page, error)
	Hydrate(ctx context.Context, ids []string) ([]domain.Dog, error)
	Match(ctx context.Context, ids []string) (string, error)
}
