package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-dog-finder/internal/domains/catalog/domain"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Repository stores catalog dogs.
type Repository interface {
	Save(ctx context.Context, dogs ...domain.Dog) error
	// Breeds lists distinct breeds in ascending order.
	Breeds(ctx context.Context) ([]string, error)
	// Search returns the ids of one sorted, filtered window plus the total match count.
	Search(ctx context.Context, q domain.Query) ([]string, int, error)
	// GetByIDs returns the known records among ids, in no particular order.
	GetByIDs(ctx context.Context, ids []string) ([]domain.Dog, error)
	Count(ctx context.Context) (int, error)
}
