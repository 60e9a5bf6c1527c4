package ports

import (
	"context"

	"github.com/Apurer/go-dog-finder/internal/domains/catalog/domain"
)

// SessionStore abstracts session persistence.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	// Get returns ErrNotFound for unknown tokens.
	Get(ctx context.Context, token string) (domain.Session, error)
	Delete(ctx context.Context, token string) error
	// PurgeExpired drops sessions that expired before now and reports how many went.
	PurgeExpired(ctx context.Context) (int64, error)
}
