package application

import (
	"context"
	"sync"

	"github.com/Apurer/go-dog-finder/internal/domains/dogs/domain"
)

// fakeCatalog answers from canned data. A search whose first breed has a gate channel blocks until
// the gate is closed, which lets tests control the order answers arrive in.
type fakeCatalog struct {
	mu sync.Mutex

	breeds    []string
	breedsErr error
	breedGate chan struct{}

	pages      map[string]domain.SearchPage
	searchErr  error
	gates      map[string]chan struct{}
	dogs       map[string]domain.Dog
	hydrateErr error
	matchID    string
	matchErr   error

	breedCalls   int
	searches     []domain.SearchQuery
	hydrateCalls [][]string
	matchCalls   [][]string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		pages: map[string]domain.SearchPage{},
		gates: map[string]chan struct{}{},
		dogs:  map[string]domain.Dog{},
	}
}

func (f *fakeCatalog) addDogs(dogs ...domain.Dog) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range dogs {
		f.dogs[d.ID] = d
	}
}

// page registers the answer for a query key, see queryKey.
func (f *fakeCatalog) page(key string, p domain.SearchPage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[key] = p
}

func (f *fakeCatalog) gate(breed string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[breed] = ch
	return ch
}

func queryKey(q domain.SearchQuery) string {
	key := q.Sort
	for _, b := range q.Breeds {
		key += "|" + b
	}
	if q.From != "" {
		key += "@" + q.From
	}
	return key
}

func (f *fakeCatalog) Breeds(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	f.breedCalls++
	gate := f.breedGate
	breeds, err := f.breeds, f.breedsErr
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return append([]string(nil), breeds...), nil
}

func (f *fakeCatalog) Search(ctx context.Context, q domain.SearchQuery) (domain.SearchPage, error) {
	f.mu.Lock()
	f.searches = append(f.searches, q)
	var gate chan struct{}
	if len(q.Breeds) > 0 {
		gate = f.gates[q.Breeds[0]]
	}
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	page, err := f.pages[queryKey(q)], f.searchErr
	f.mu.Unlock()
	if err != nil {
		return domain.SearchPage{}, err
	}
	return page, nil
}

func (f *fakeCatalog) Hydrate(ctx context.Context, ids []string) ([]domain.Dog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hydrateCalls = append(f.hydrateCalls, append([]string(nil), ids...))
	if f.hydrateErr != nil {
		return nil, f.hydrateErr
	}
	// Reverse order on purpose: callers must align to the ids themselves.
	out := make([]domain.Dog, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		if d, ok := f.dogs[ids[i]]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Match(ctx context.Context, ids []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matchCalls = append(f.matchCalls, append([]string(nil), ids...))
	return f.matchID, f.matchErr
}

func (f *fakeCatalog) counts() (searches, hydrates, matches int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches), len(f.hydrateCalls), len(f.matchCalls)
}

type countingExpirer struct {
	mu    sync.Mutex
	calls int
}

func (e *countingExpirer) Expire(context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
}

func (e *countingExpirer) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}
