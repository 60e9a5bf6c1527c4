package domain

import "sync"

// Favorites is the user's client-local shortlist, keyed by dog id. Display order is insertion order.
// The zero value is ready to use and safe for concurrent callers.
type Favorites struct {
	mu    sync.RWMutex
	order []string
	dogs  map[string]Dog
}

// NewFavorites returns an empty set.
func NewFavorites() *Favorites {
	return &Favorites{}
}

// Toggle adds dog when absent and removes it when present. It reports whether dog is a favorite afterwards.
func (f *Favorites) Toggle(dog Dog) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.dogs[dog.ID]; ok {
		f.removeLocked(dog.ID)
		return false
	}
	if f.dogs == nil {
		f.dogs = make(map[string]Dog)
	}
	f.dogs[dog.ID] = dog
	f.order = append(f.order, dog.ID)
	return true
}

// IsFavorite reports membership.
func (f *Favorites) IsFavorite(id string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.dogs[id]
	return ok
}

// Remove drops id if present.
func (f *Favorites) Remove(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.dogs[id]; !ok {
		return false
	}
	f.removeLocked(id)
	return true
}

// List returns the favorites in insertion order.
func (f *Favorites) List() []Dog {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Dog, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.dogs[id])
	}
	return out
}

// IDs returns the favorite ids in insertion order.
func (f *Favorites) IDs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.order...)
}

// Len returns the number of favorites.
func (f *Favorites) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.order)
}

// Clear empties the set.
func (f *Favorites) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = nil
	f.dogs = nil
}

func (f *Favorites) removeLocked(id string) {
	delete(f.dogs, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i:i], f.order[i+1:]...)
			return
		}
	}
}
