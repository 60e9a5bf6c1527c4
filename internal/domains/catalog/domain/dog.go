package domain

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// Dog is a catalog entry.
type Dog struct {
	ID       string
	Name     string
	Breed    string
	Age      int
	ZipCode  string
	ImageURL string
}

var (
	ErrEmptyID     = errors.New("dog id is required")
	ErrEmptyName   = errors.New("dog name is required")
	ErrEmptyBreed  = errors.New("dog breed is required")
	ErrNegativeAge = errors.New("dog age must be greater or equal to zero")
)

// Validate checks catalog invariants.
func (d Dog) Validate() error {
	switch {
	case strings.TrimSpace(d.ID) == "":
		return ErrEmptyID
	case strings.TrimSpace(d.Name) == "":
		return ErrEmptyName
	case strings.TrimSpace(d.Breed) == "":
		return ErrEmptyBreed
	case d.Age < 0:
		return ErrNegativeAge
	}
	return nil
}

// SortField is a sortable column.
type SortField string

const (
	SortBreed SortField = "breed"
	SortName  SortField = "name"
	SortAge   SortField = "age"
)

// Order is a parsed "<field>:<asc|desc>" value.
type Order struct {
	Field      SortField
	Descending bool
}

// DefaultOrder applies when the request names none.
var DefaultOrder = Order{Field: SortBreed}

var ErrInvalidSort = errors.New("sort must look like <breed|name|age>:<asc|desc>")

// ParseOrder reads the sort query parameter. Blank means DefaultOrder.
func ParseOrder(raw string) (Order, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultOrder, nil
	}
	field, dir, ok := strings.Cut(raw, ":")
	if !ok {
		return Order{}, ErrInvalidSort
	}
	o := Order{Field: SortField(field)}
	switch o.Field {
	case SortBreed, SortName, SortAge:
	default:
		return Order{}, ErrInvalidSort
	}
	switch dir {
	case "asc":
	case "desc":
		o.Descending = true
	default:
		return Order{}, ErrInvalidSort
	}
	return o, nil
}

// Less orders a before b. Ties fall back to id so paging is stable.
func (o Order) Less(a, b Dog) bool {
	var cmp int
	switch o.Field {
	case SortName:
		cmp = strings.Compare(a.Name, b.Name)
	case SortAge:
		cmp = a.Age - b.Age
	default:
		cmp = strings.Compare(a.Breed, b.Breed)
	}
	if cmp == 0 {
		return a.ID < b.ID
	}
	if o.Descending {
		return cmp > 0
	}
	return cmp < 0
}

// SortDogs sorts in place.
func SortDogs(dogs []Dog, o Order) {
	sort.SliceStable(dogs, func(i, j int) bool { return o.Less(dogs[i], dogs[j]) })
}

// Paging limits.
const (
	DefaultSize = 25
	MaxSize     = 100
	MaxHydrate  = 100
)

// Query is a parsed search request.
type Query struct {
	Breeds []string
	AgeMin *int
	AgeMax *int
	Order  Order
	Size   int
	From   int
}

// Matches reports whether d passes the filters.
func (q Query) Matches(d Dog) bool {
	if len(q.Breeds) > 0 {
		found := false
		for _, b := range q.Breeds {
			if b == d.Breed {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.AgeMin != nil && d.Age < *q.AgeMin {
		return false
	}
	if q.AgeMax != nil && d.Age > *q.AgeMax {
		return false
	}
	return true
}

// Page is one window of search results.
type Page struct {
	IDs   []string
	Total int
	Next  string
	Prev  string
}

// Cursor tokens are plain offsets. Clients must treat them as opaque.

// EncodeCursor renders an offset token.
func EncodeCursor(offset int) string { return strconv.Itoa(offset) }

var ErrInvalidCursor = errors.New("from must be a cursor returned by a previous search")

// DecodeCursor parses an offset token. Blank means the first page.
func DecodeCursor(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, ErrInvalidCursor
	}
	return v, nil
}

// NewPage builds the cursors around a window of ids taken at q.From.
func NewPage(q Query, ids []string, total int) Page {
	p := Page{IDs: ids, Total: total}
	if q.From+q.Size < total {
		p.Next = EncodeCursor(q.From + q.Size)
	}
	if q.From > 0 {
		p.Prev = EncodeCursor(max(q.From-q.Size, 0))
	}
	return p
}
