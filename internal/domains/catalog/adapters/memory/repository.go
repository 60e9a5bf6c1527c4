package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Apurer/go-dog-finder/internal/domains/catalog/domain"
	"github.com/Apurer/go-dog-finder/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog.
type Repository struct {
	mu   sync.RWMutex
	dogs map[string]domain.Dog
}

func NewRepository() *Repository {
	return &Repository{dogs: map[string]domain.Dog{}}
}

// Save validates every dog before storing any of them.
func (r *Repository) Save(_ context.Context, dogs ...domain.Dog) error {
	for _, d := range dogs {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range dogs {
		r.dogs[d.ID] = d
	}
	return nil
}

func (r *Repository) Breeds(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]struct{}{}
	breeds := make([]string, 0)
	for _, d := range r.dogs {
		if _, ok := seen[d.Breed]; ok {
			continue
		}
		seen[d.Breed] = struct{}{}
		breeds = append(breeds, d.Breed)
	}
	sort.Strings(breeds)
	return breeds, nil
}

func (r *Repository) Search(_ context.Context, q domain.Query) ([]string, int, error) {
	r.mu.RLock()
	matched := make([]domain.Dog, 0, len(r.dogs))
	for _, d := range r.dogs {
		if q.Matches(d) {
			matched = append(matched, d)
		}
	}
	r.mu.RUnlock()

	domain.SortDogs(matched, q.Order)
	total := len(matched)
	start := min(q.From, total)
	end := min(start+q.Size, total)
	ids := make([]string, 0, end-start)
	for _, d := range matched[start:end] {
		ids = append(ids, d.ID)
	}
	return ids, total, nil
}

func (r *Repository) GetByIDs(_ context.Context, ids []string) ([]domain.Dog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Dog, 0, len(ids))
	for _, id := range ids {
		if d, ok := r.dogs[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *Repository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.dogs), nil
}
