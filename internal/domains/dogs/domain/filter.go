package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SortField names a sortable dog attribute.
type SortField string

const (
	SortByBreed SortField = "breed"
	SortByName  SortField = "name"
	SortByAge   SortField = "age"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

const (
	// DefaultPageSize is the number of dogs requested per page unless the user picks another size.
	DefaultPageSize = 20
	// MaxPageSize is the largest page the service hydrates in one call.
	MaxPageSize = 100
)

var (
	ErrAgeRange    = errors.New("minimum age must not exceed maximum age")
	ErrInvalidAge  = errors.New("age must be a whole number of years, zero or more")
	ErrInvalidSort = errors.New("sort must be one of breed, name, age with direction asc or desc")
	ErrInvalidSize = errors.New("page size must be between 1 and 100")
)

// Sort is the active ordering of search results.
type Sort struct {
	Field     SortField     `validate:"oneof=breed name age"`
	Direction SortDirection `validate:"oneof=asc desc"`
}

// String renders the wire form "<field>:<direction>".
func (s Sort) String() string {
	return string(s.Field) + ":" + string(s.Direction)
}

// ParseSort reads "<field>:<direction>".
func ParseSort(raw string) (Sort, error) {
	field, dir, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return Sort{}, ErrInvalidSort
	}
	s := Sort{Field: SortField(strings.ToLower(field)), Direction: SortDirection(strings.ToLower(dir))}
	if !s.valid() {
		return Sort{}, ErrInvalidSort
	}
	return s, nil
}

func (s Sort) valid() bool {
	switch s.Field {
	case SortByBreed, SortByName, SortByAge:
	default:
		return false
	}
	return s.Direction == Ascending || s.Direction == Descending
}

// FilterState is the user's current search criteria.
type FilterState struct {
	// Breeds keeps selection order; membership is unique.
	Breeds   []string `validate:"dive,required"`
	AgeMin   *int     `validate:"omitempty,gte=0"`
	AgeMax   *int     `validate:"omitempty,gte=0"`
	Sort     Sort
	PageSize int `validate:"gt=0,lte=100"`
}

// DefaultFilters returns the state a fresh session starts with.
func DefaultFilters() FilterState {
	return FilterState{
		Sort:     Sort{Field: SortByBreed, Direction: Ascending},
		PageSize: DefaultPageSize,
	}
}

// Clone returns a deep copy.
func (f FilterState) Clone() FilterState {
	out := f
	out.Breeds = append([]string(nil), f.Breeds...)
	if f.AgeMin != nil {
		v := *f.AgeMin
		out.AgeMin = &v
	}
	if f.AgeMax != nil {
		v := *f.AgeMax
		out.AgeMax = &v
	}
	return out
}

// Apply returns a copy of f with the updates applied in order. f itself is not modified.
func (f FilterState) Apply(updates ...FilterOption) FilterState {
	next := f.Clone()
	for _, update := range updates {
		if update != nil {
			update(&next)
		}
	}
	return next
}

// CheckRanges enforces the cross-field rules struct tags cannot express.
func (f FilterState) CheckRanges() error {
	if f.AgeMin != nil && f.AgeMax != nil && *f.AgeMin > *f.AgeMax {
		return ErrAgeRange
	}
	if !f.Sort.valid() {
		return ErrInvalidSort
	}
	if f.PageSize < 1 || f.PageSize > MaxPageSize {
		return ErrInvalidSize
	}
	return nil
}

// Query renders the state as a search request, optionally continuing from a cursor token.
func (f FilterState) Query(from string) SearchQuery {
	q := SearchQuery{
		Breeds: append([]string(nil), f.Breeds...),
		Sort:   f.Sort.String(),
		Size:   f.PageSize,
		From:   from,
	}
	if f.AgeMin != nil {
		v := *f.AgeMin
		q.AgeMin = &v
	}
	if f.AgeMax != nil {
		v := *f.AgeMax
		q.AgeMax = &v
	}
	return q
}

// SearchQuery is the remote search request. Nil and empty fields are left out of the request.
type SearchQuery struct {
	Breeds []string
	AgeMin *int
	AgeMax *int
	Sort   string
	Size   int
	From   string
}

// FilterOption mutates a draft FilterState.
type FilterOption func(*FilterState)

// WithBreeds replaces the breed selection, dropping blanks and duplicates while keeping order.
func WithBreeds(breeds ...string) FilterOption {
	return func(f *FilterState) {
		f.Breeds = uniqueBreeds(breeds)
	}
}

// ToggleBreed selects a breed, or deselects it when already selected.
func ToggleBreed(breed string) FilterOption {
	return func(f *FilterState) {
		breed = strings.TrimSpace(breed)
		if breed == "" {
			return
		}
		for i, b := range f.Breeds {
			if b == breed {
				f.Breeds = append(f.Breeds[:i:i], f.Breeds[i+1:]...)
				return
			}
		}
		f.Breeds = append(f.Breeds, breed)
	}
}

// WithAgeMin sets or clears (nil) the lower age bound.
func WithAgeMin(age *int) FilterOption {
	return func(f *FilterState) {
		f.AgeMin = copyInt(age)
	}
}

// WithAgeMax sets or clears (nil) the upper age bound.
func WithAgeMax(age *int) FilterOption {
	return func(f *FilterState) {
		f.AgeMax = copyInt(age)
	}
}

// ClearAgeMin drops the lower age bound.
func ClearAgeMin() FilterOption { return WithAgeMin(nil) }

// ClearAgeMax drops the upper age bound.
func ClearAgeMax() FilterOption { return WithAgeMax(nil) }

// WithPageSize sets the number of results per page.
func WithPageSize(size int) FilterOption {
	return func(f *FilterState) {
		f.PageSize = size
	}
}

// WithSort sets the ordering.
func WithSort(field SortField, direction SortDirection) FilterOption {
	return func(f *FilterState) {
		f.Sort = Sort{Field: field, Direction: direction}
	}
}

// ParseAgeBound converts user text into an optional bound. Blank text means "no bound".
func ParseAgeBound(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAge, raw)
	}
	if v < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAge, v)
	}
	return &v, nil
}

// IntPtr is a convenience for building optional bounds.
func IntPtr(v int) *int { return &v }

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func uniqueBreeds(breeds []string) []string {
	seen := make(map[string]struct{}, len(breeds))
	out := make([]string, 0, len(breeds))
	for _, b := range breeds {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}
