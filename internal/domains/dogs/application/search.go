package application

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/go-dog-finder/internal/domains/dogs/domain"
	"github.com/Apurer/go-dog-finder/internal/domains/dogs/ports"
	"github.com/Apurer/go-dog-finder/internal/platform/validation"
)

// SearchState is everything the results view shows.
type SearchState struct {
	Filters domain.FilterState
	Cursor  domain.PageCursor
	// Page is 1-based and only moves when a page actually loaded.
	Page      int
	Results   []domain.Dog
	Total     int
	Loading   bool
	LastError error
}

func (s SearchState) clone() SearchState {
	out := s
	out.Filters = s.Filters.Clone()
	out.Results = append([]domain.Dog(nil), s.Results...)
	return out
}

// SearchController owns the filter, sort and pagination state and the two-phase fetch behind it.
//
// Every fetch takes a ticket from a single counter. Only the answer holding the latest ticket may
// touch the visible state, so a slow answer to an older request can never overwrite a newer one.
// The lock is never held across a catalog call.
type SearchController struct {
	catalog   ports.Catalog
	expirer   ports.SessionExpirer
	validator *validation.Validator
	defaults  domain.FilterState

	mu     sync.Mutex
	state  SearchState
	ticket uint64
}

// ControllerOption configures a SearchController.
type ControllerOption func(*SearchController)

// WithDefaultPageSize changes the page size fresh sessions start with.
func WithDefaultPageSize(size int) ControllerOption {
	return func(c *SearchController) {
		if size > 0 && size <= domain.MaxPageSize {
			c.defaults.PageSize = size
		}
	}
}

func NewSearchController(catalog ports.Catalog, expirer ports.SessionExpirer, opts ...ControllerOption) *SearchController {
	if expirer == nil {
		expirer = ports.NoopExpirer
	}
	c := &SearchController{
		catalog:   catalog,
		expirer:   expirer,
		validator: validation.New(),
		defaults:  domain.DefaultFilters(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.state = c.initialState()
	return c
}

func (c *SearchController) initialState() SearchState {
	return SearchState{Filters: c.defaults.Clone(), Page: 1}
}

// SetFilters applies updates to the current filters and loads page 1 of the new search.
// Invalid filters are rejected before anything changes.
func (c *SearchController) SetFilters(ctx context.Context, updates ...domain.FilterOption) error {
	const op = "search.SetFilters"

	c.mu.Lock()
	next := c.state.Filters.Apply(updates...)
	if err := c.validate(next); err != nil {
		c.mu.Unlock()
		return validationError(op, err)
	}
	c.state.Filters = next
	ticket := c.beginLocked(true)
	query := next.Query("")
	c.mu.Unlock()

	return c.fetch(ctx, op, ticket, query, 1)
}

// SetSort changes only the ordering.
func (c *SearchController) SetSort(ctx context.Context, field domain.SortField, direction domain.SortDirection) error {
	return c.SetFilters(ctx, domain.WithSort(field, direction))
}

// Refresh reloads page 1 with the current filters.
func (c *SearchController) Refresh(ctx context.Context) error {
	const op = "search.Refresh"

	c.mu.Lock()
	ticket := c.beginLocked(true)
	query := c.state.Filters.Query("")
	c.mu.Unlock()

	return c.fetch(ctx, op, ticket, query, 1)
}

// NextPage follows the next cursor. Without one it does nothing.
func (c *SearchController) NextPage(ctx context.Context) error {
	const op = "search.NextPage"

	c.mu.Lock()
	if !c.state.Cursor.HasNext() {
		c.mu.Unlock()
		return nil
	}
	query := c.state.Filters.Query(c.state.Cursor.Next)
	page := c.state.Page + 1
	ticket := c.beginLocked(false)
	c.mu.Unlock()

	return c.fetch(ctx, op, ticket, query, page)
}

// PrevPage follows the prev cursor. Without one it does nothing.
func (c *SearchController) PrevPage(ctx context.Context) error {
	const op = "search.PrevPage"

	c.mu.Lock()
	if !c.state.Cursor.HasPrev() {
		c.mu.Unlock()
		return nil
	}
	query := c.state.Filters.Query(c.state.Cursor.Prev)
	page := max(c.state.Page-1, 1)
	ticket := c.beginLocked(false)
	c.mu.Unlock()

	return c.fetch(ctx, op, ticket, query, page)
}

// Snapshot returns a copy of the current state.
func (c *SearchController) Snapshot() SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Reset drops everything back to a fresh session. Answers still in flight are ignored.
func (c *SearchController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticket++
	c.state = c.initialState()
}

// beginLocked issues a new ticket and marks the slot loading. A new search also forgets the cursor.
func (c *SearchController) beginLocked(newSearch bool) uint64 {
	c.ticket++
	c.state.Loading = true
	if newSearch {
		c.state.Cursor = domain.PageCursor{}
		c.state.Page = 1
	}
	return c.ticket
}

func (c *SearchController) validate(f domain.FilterState) error {
	if err := c.validator.Validate(f); err != nil {
		return err
	}
	return f.CheckRanges()
}

func (c *SearchController) fetch(ctx context.Context, op string, ticket uint64, query domain.SearchQuery, page int) error {
	result, err := c.catalog.Search(ctx, query)
	if err != nil {
		return c.fail(ctx, op, ticket, "search", err)
	}

	var dogs []domain.Dog
	if len(result.ResultIDs) > 0 {
		hydrated, err := c.catalog.Hydrate(ctx, result.ResultIDs)
		if err != nil {
			return c.fail(ctx, op, ticket, "loading dogs", err)
		}
		dogs = domain.AlignToIDs(result.ResultIDs, hydrated)
	} else {
		result = domain.SearchPage{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket != c.ticket {
		return ErrSuperseded
	}
	c.state.Results = dogs
	c.state.Total = result.Total
	c.state.Cursor = result.Cursor
	c.state.Page = page
	c.state.Loading = false
	c.state.LastError = nil
	return nil
}

// fail records err unless a newer request owns the slot. Results stay as they were. A stale
// unauthorized answer was sent with a cookie that may no longer be current, so only the latest
// request may expire the session.
func (c *SearchController) fail(ctx context.Context, op string, ticket uint64, action string, err error) error {
	classified := classify(op, action, err)

	c.mu.Lock()
	if ticket != c.ticket {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.state.Loading = false
	c.state.LastError = classified
	c.mu.Unlock()

	if errors.Is(err, ports.ErrUnauthorized) {
		c.expirer.Expire(ctx)
	}
	return classified
}
