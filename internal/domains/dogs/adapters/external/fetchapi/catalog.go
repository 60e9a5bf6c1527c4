package fetchapi

import (
	"context"
	"errors"
	"fmt"

	fetchclient "github.com/Apurer/go-dog-finder/internal/clients/http/fetchapi"
	"github.com/Apurer/go-dog-finder/internal/domains/dogs/domain"
	"github.com/Apurer/go-dog-finder/internal/domains/dogs/ports"
)

// Catalog implements the catalog port over the adoption service client.
type Catalog struct {
	client *fetchclient.Client
}

// NewCatalog wires the HTTP client into the catalog port.
func NewCatalog(client *fetchclient.Client) *Catalog {
	return &Catalog{client: client}
}

func (c *Catalog) Breeds(ctx context.Context) ([]string, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	breeds, err := c.client.Breeds(ctx)
	return breeds, mapError(err)
}

func (c *Catalog) Search(ctx context.Context, query domain.SearchQuery) (domain.SearchPage, error) {
	if err := c.ready(); err != nil {
		return domain.SearchPage{}, err
	}
	result, err := c.client.Search(ctx, ToParams(query))
	if err != nil {
		return domain.SearchPage{}, mapError(err)
	}
	return ToPage(result), nil
}

func (c *Catalog) Hydrate(ctx context.Context, ids []string) ([]domain.Dog, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	records, err := c.client.Dogs(ctx, ids)
	if err != nil {
		return nil, mapError(err)
	}
	dogs := make([]domain.Dog, 0, len(records))
	for _, r := range records {
		dogs = append(dogs, ToDomain(r))
	}
	return dogs, nil
}

func (c *Catalog) Match(ctx context.Context, ids []string) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	id, err := c.client.Match(ctx, ids)
	return id, mapError(err)
}

func (c *Catalog) ready() error {
	if c == nil || c.client == nil {
		return errors.New("catalog adapter not configured")
	}
	return nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fetchclient.ErrUnauthorized) {
		return fmt.Errorf("%w: %w", ports.ErrUnauthorized, err)
	}
	return err
}

var _ ports.Catalog = (*Catalog)(nil)
