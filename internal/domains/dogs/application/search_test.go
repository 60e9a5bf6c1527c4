package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Apurer/go-dog-finder/internal/domains/dogs/domain"
	"github.com/Apurer/go-dog-finder/internal/domains/dogs/ports"
	apperrors "github.com/Apurer/go-dog-finder/internal/shared/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ids(dogs []domain.Dog) []string {
	out := make([]string, 0, len(dogs))
	for _, d := range dogs {
		out = append(out, d.ID)
	}
	return out
}

func seededCatalog() *fakeCatalog {
	cat := newFakeCatalog()
	cat.addDogs(
		domain.Dog{ID: "a", Name: "Ace", Breed: "Poodle", Age: 2},
		domain.Dog{ID: "b", Name: "Bo", Breed: "Husky", Age: 5},
		domain.Dog{ID: "c", Name: "Cy", Breed: "Poodle", Age: 7},
		domain.Dog{ID: "d", Name: "Di", Breed: "Husky", Age: 1},
	)
	cat.page("breed:asc", domain.SearchPage{Total: 4, ResultIDs: []string{"c", "a"}, Cursor: domain.PageCursor{Next: "n1"}})
	cat.page("breed:asc@n1", domain.SearchPage{Total: 4, ResultIDs: []string{"b", "d"}, Cursor: domain.PageCursor{Prev: "p1"}})
	cat.page("breed:asc@p1", domain.SearchPage{Total: 4, ResultIDs: []string{"c", "a"}, Cursor: domain.PageCursor{Next: "n1"}})
	return cat
}

func TestRefresh_LoadsFirstPageInServiceOrder(t *testing.T) {
	cat := seededCatalog()
	c := NewSearchController(cat, nil)

	require.NoError(t, c.Refresh(context.Background()))

	s := c.Snapshot()
	require.Equal(t, []string{"c", "a"}, ids(s.Results))
	require.Equal(t, 4, s.Total)
	require.Equal(t, 1, s.Page)
	require.False(t, s.Loading)
	require.NoError(t, s.LastError)
	require.Equal(t, [][]string{{"c", "a"}}, cat.hydrateCalls)
}

func TestSetFilters_SendsCommittedState(t *testing.T) {
	cat := seededCatalog()
	c := NewSearchController(cat, nil)

	err := c.SetFilters(context.Background(),
		domain.WithBreeds("Poodle", "Husky"),
		domain.WithAgeMin(domain.IntPtr(2)),
		domain.WithSort(domain.SortByAge, domain.Descending),
	)
	require.NoError(t, err)

	require.Len(t, cat.searches, 1)
	q := cat.searches[0]
	require.Equal(t, []string{"Poodle", "Husky"}, q.Breeds)
	require.Equal(t, 2, *q.AgeMin)
	require.Nil(t, q.AgeMax)
	require.Equal(t, "age:desc", q.Sort)
	require.Equal(t, domain.DefaultPageSize, q.Size)
	require.Empty(t, q.From)
	require.Equal(t, c.Snapshot().Filters.Breeds, []string{"Poodle", "Husky"})
}

func TestSetFilters_InvalidRejectedWithoutMutation(t *testing.T) {
	cat := seededCatalog()
	c := NewSearchController(cat, nil)
	require.NoError(t, c.Refresh(context.Background()))
	before := c.Snapshot()

	cases := [][]domain.FilterOption{
		{domain.WithAgeMin(domain.IntPtr(9)), domain.WithAgeMax(domain.IntPtr(3))},
		{domain.WithAgeMin(domain.IntPtr(-1))},
		{domain.WithPageSize(0)},
		{domain.WithSort("color", domain.Ascending)},
		{domain.WithSort(domain.SortByAge, "sideways")},
	}
	for _, updates := range cases {
		err := c.SetFilters(context.Background(), updates...)
		require.True(t, apperrors.IsKind(err, apperrors.KindValidation), "%v", err)
	}

	require.Equal(t, before, c.Snapshot())
	searches, _, _ := cat.counts()
	require.Equal(t, 1, searches)
}

func TestSetFilters_AgeRangeKeepsDomainError(t *testing.T) {
	c := NewSearchController(seededCatalog(), nil)

	err := c.SetFilters(context.Background(), domain.WithAgeMin(domain.IntPtr(9)), domain.WithAgeMax(domain.IntPtr(3)))

	require.ErrorIs(t, err, domain.ErrAgeRange)
}

func TestPaging_FollowsCursors(t *testing.T) {
	cat := seededCatalog()
	c := NewSearchController(cat, nil)
	require.NoError(t, c.Refresh(context.Background()))

	require.NoError(t, c.NextPage(context.Background()))
	s := c.Snapshot()
	require.Equal(t, 2, s.Page)
	require.Equal(t, []string{"b", "d"}, ids(s.Results))
	require.Equal(t, "n1", cat.searches[1].From)

	// no next cursor on the last page
	require.NoError(t, c.NextPage(context.Background()))
	searches, _, _ := cat.counts()
	require.Equal(t, 2, searches)
	require.Equal(t, 2, c.Snapshot().Page)

	require.NoError(t, c.PrevPage(context.Background()))
	s = c.Snapshot()
	require.Equal(t, 1, s.Page)
	require.Equal(t, []string{"c", "a"}, ids(s.Results))
}

func TestPaging_NoCursorIsNoop(t *testing.T) {
	cat := seededCatalog()
	c := NewSearchController(cat, nil)

	require.NoError(t, c.NextPage(context.Background()))
	require.NoError(t, c.PrevPage(context.Background()))

	searches, _, _ := cat.counts()
	require.Zero(t, searches)
	require.Equal(t, 1, c.Snapshot().Page)
}

func TestFilterChangeResetsPaging(t *testing.T) {
	cat := seededCatalog()
	cat.page("breed:asc|Husky", domain.SearchPage{Total: 2, ResultIDs: []string{"d", "b"}})
	c := NewSearchController(cat, nil)
	require.NoError(t, c.Refresh(context.Background()))
	require.NoError(t, c.NextPage(context.Background()))

	require.NoError(t, c.SetFilters(context.Background(), domain.ToggleBreed("Husky")))

	s := c.Snapshot()
	require.Equal(t, 1, s.Page)
	require.Empty(t, cat.searches[2].From)
	require.Equal(t, domain.PageCursor{}, s.Cursor)
	require.Equal(t, []string{"d", "b"}, ids(s.Results))
}

func TestEmptyResultSkipsHydrate(t *testing.T) {
	cat := seededCatalog()
	cat.page("breed:asc|Akita", domain.SearchPage{Total: 0, ResultIDs: []string{}, Cursor: domain.PageCursor{Next: "junk"}})
	c := NewSearchController(cat, nil)
	require.NoError(t, c.Refresh(context.Background()))

	require.NoError(t, c.SetFilters(context.Background(), domain.WithBreeds("Akita")))

	s := c.Snapshot()
	require.Empty(t, s.Results)
	require.Zero(t, s.Total)
	require.False(t, s.Cursor.HasNext())
	_, hydrates, _ := cat.counts()
	require.Equal(t, 1, hydrates)
}

func TestSearchFailureKeepsPreviousResults(t *testing.T) {
	cat := seededCatalog()
	c := NewSearchController(cat, nil)
	require.NoError(t, c.Refresh(context.Background()))

	cat.searchErr = errors.New("status 500")
	err := c.SetSort(context.Background(), domain.SortByName, domain.Ascending)

	require.True(t, apperrors.IsKind(err, apperrors.KindFetch))
	require.Equal(t, "search failed, please try again", apperrors.UserMessage(err))
	s := c.Snapshot()
	require.False(t, s.Loading)
	require.Equal(t, []string{"c", "a"}, ids(s.Results))
	require.Equal(t, err, s.LastError)
	require.Equal(t, domain.Sort{Field: domain.SortByName, Direction: domain.Ascending}, s.Filters.Sort)
}

func TestUnauthorizedHydrateExpiresSession(t *testing.T) {
	cat := seededCatalog()
	exp := &countingExpirer{}
	c := NewSearchController(cat, exp)
	require.NoError(t, c.Refresh(context.Background()))

	cat.hydrateErr = ports.ErrUnauthorized
	err := c.NextPage(context.Background())

	require.True(t, apperrors.IsKind(err, apperrors.KindSessionExpired))
	require.Equal(t, 1, exp.count())
	s := c.Snapshot()
	require.False(t, s.Loading)
	require.Equal(t, 1, s.Page)
	require.Equal(t, []string{"c", "a"}, ids(s.Results))
}

func TestStaleAnswerIsDiscarded(t *testing.T) {
	cat := seededCatalog()
	cat.page("breed:asc|Poodle", domain.SearchPage{Total: 2, ResultIDs: []string{"a", "c"}})
	cat.page("breed:asc|Husky", domain.SearchPage{Total: 2, ResultIDs: []string{"b", "d"}})
	slow := cat.gate("Poodle")
	c := NewSearchController(cat, nil)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- c.SetFilters(context.Background(), domain.WithBreeds("Poodle"))
	}()
	require.Eventually(t, func() bool {
		searches, _, _ := cat.counts()
		return searches == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, c.SetFilters(context.Background(), domain.WithBreeds("Husky")))
	close(slow)

	require.ErrorIs(t, <-firstDone, ErrSuperseded)
	s := c.Snapshot()
	require.Equal(t, []string{"b", "d"}, ids(s.Results))
	require.Equal(t, []string{"Husky"}, s.Filters.Breeds)
	require.False(t, s.Loading)
	require.NoError(t, s.LastError)
}

func TestStaleFailureDoesNotTouchState(t *testing.T) {
	cat := seededCatalog()
	cat.page("breed:asc|Husky", domain.SearchPage{Total: 2, ResultIDs: []string{"b", "d"}})
	slow := cat.gate("Poodle")
	c := NewSearchController(cat, nil)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- c.SetFilters(context.Background(), domain.WithBreeds("Poodle"))
	}()
	require.Eventually(t, func() bool {
		searches, _, _ := cat.counts()
		return searches == 1
	}, time.Second, time.Millisecond)
	require.NoError(t, c.SetFilters(context.Background(), domain.WithBreeds("Husky")))

	cat.mu.Lock()
	cat.searchErr = errors.New("late failure")
	cat.mu.Unlock()
	close(slow)

	require.ErrorIs(t, <-firstDone, ErrSuperseded)
	s := c.Snapshot()
	require.NoError(t, s.LastError)
	require.Equal(t, []string{"b", "d"}, ids(s.Results))
}

func TestResetInvalidatesInFlight(t *testing.T) {
	cat := seededCatalog()
	cat.page("breed:asc|Poodle", domain.SearchPage{Total: 2, ResultIDs: []string{"a", "c"}})
	slow := cat.gate("Poodle")
	c := NewSearchController(cat, nil, WithDefaultPageSize(10))

	done := make(chan error, 1)
	go func() {
		done <- c.SetFilters(context.Background(), domain.WithBreeds("Poodle"))
	}()
	require.Eventually(t, func() bool {
		searches, _, _ := cat.counts()
		return searches == 1
	}, time.Second, time.Millisecond)
	c.Reset()
	close(slow)

	require.ErrorIs(t, <-done, ErrSuperseded)
	s := c.Snapshot()
	require.Empty(t, s.Results)
	require.Empty(t, s.Filters.Breeds)
	require.Equal(t, 10, s.Filters.PageSize)
	require.False(t, s.Loading)
}

func TestSnapshotIsACopy(t *testing.T) {
	c := NewSearchController(seededCatalog(), nil)
	require.NoError(t, c.SetFilters(context.Background(), domain.WithBreeds("Poodle")))

	s := c.Snapshot()
	s.Filters.Breeds[0] = "Pug"

	require.Equal(t, []string{"Poodle"}, c.Snapshot().Filters.Breeds)
}

func TestUnauthorizedSearchExpiresSession(t *testing.T) {
	cat := seededCatalog()
	exp := &countingExpirer{}
	c := NewSearchController(cat, exp)
	require.NoError(t, c.Refresh(context.Background()))

	cat.searchErr = ports.ErrUnauthorized
	err := c.SetSort(context.Background(), domain.SortByAge, domain.Descending)

	require.True(t, apperrors.IsKind(err, apperrors.KindSessionExpired))
	require.Equal(t, apperrors.MsgSessionExpired, apperrors.UserMessage(err))
	require.Equal(t, 1, exp.count())
	s := c.Snapshot()
	require.False(t, s.Loading)
	require.Equal(t, []string{"c", "a"}, ids(s.Results))
	require.Equal(t, 4, s.Total)
	require.Equal(t, err, s.LastError)
	_, hydrates, _ := cat.counts()
	require.Equal(t, 1, hydrates)
}

func TestStaleUnauthorizedDoesNotExpireSession(t *testing.T) {
	cat := seededCatalog()
	slow := cat.gate("Poodle")
	exp := &countingExpirer{}
	c := NewSearchController(cat, exp)

	done := make(chan error, 1)
	go func() {
		done <- c.SetFilters(context.Background(), domain.WithBreeds("Poodle"))
	}()
	require.Eventually(t, func() bool {
		searches, _, _ := cat.counts()
		return searches == 1
	}, time.Second, time.Millisecond)
	c.Reset()

	cat.mu.Lock()
	cat.searchErr = ports.ErrUnauthorized
	cat.mu.Unlock()
	close(slow)

	require.ErrorIs(t, <-done, ErrSuperseded)
	require.Zero(t, exp.count())
	require.NoError(t, c.Snapshot().LastError)
}
