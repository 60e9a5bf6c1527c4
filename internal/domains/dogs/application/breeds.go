package application

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Apurer/go-dog-finder/internal/domains/dogs/domain"
	"github.com/Apurer/go-dog-finder/internal/domains/dogs/ports"
	apperrors "github.com/Apurer/go-dog-finder/internal/shared/errors"
)

const breedsKey = "breeds"

// BreedLoader fetches the breed catalog once per session. Concurrent callers share one request and
// only successful answers are kept.
type BreedLoader struct {
	catalog ports.Catalog
	expirer ports.SessionExpirer
	group   singleflight.Group

	mu     sync.RWMutex
	breeds []string
	loaded bool
	gen    uint64
}

func NewBreedLoader(catalog ports.Catalog, expirer ports.SessionExpirer) *BreedLoader {
	if expirer == nil {
		expirer = ports.NoopExpirer
	}
	return &BreedLoader{catalog: catalog, expirer: expirer}
}

// Load returns the breed list, fetching it on first use.
func (l *BreedLoader) Load(ctx context.Context) ([]string, error) {
	const op = "breeds.Load"
	if breeds, ok := l.cached(); ok {
		return breeds, nil
	}

	l.mu.RLock()
	gen := l.gen
	l.mu.RUnlock()

	// The shared fetch outlives any one caller; each caller stops waiting when its own ctx ends.
	shared := context.WithoutCancel(ctx)
	ch := l.group.DoChan(breedsKey, func() (any, error) {
		breeds, err := l.catalog.Breeds(shared)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		if gen == l.gen {
			l.breeds = breeds
			l.loaded = true
		}
		l.mu.Unlock()
		return breeds, nil
	})

	select {
	case <-ctx.Done():
		return nil, apperrors.Fetch(op, "loading breeds", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			if l.stale(gen) {
				return nil, classify(op, "loading breeds", res.Err)
			}
			return nil, remoteError(ctx, l.expirer, op, "loading breeds", res.Err)
		}
		return append([]string(nil), res.Val.([]string)...), nil
	}
}

// Filter narrows the loaded breeds by a case-insensitive substring. Before Load it returns nothing.
func (l *BreedLoader) Filter(term string) []string {
	breeds, _ := l.cached()
	return domain.FilterBreeds(breeds, term)
}

// Reset forgets the cached list.
func (l *BreedLoader) Reset() {
	l.mu.Lock()
	l.breeds = nil
	l.loaded = false
	l.gen++
	l.mu.Unlock()
	l.group.Forget(breedsKey)
}

// stale reports whether a Reset happened since gen was read.
func (l *BreedLoader) stale(gen uint64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return gen != l.gen
}

func (l *BreedLoader) cached() ([]string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.loaded {
		return nil, false
	}
	return append([]string(nil), l.breeds...), true
}
