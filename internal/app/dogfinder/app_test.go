package dogfinder

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/Apurer/go-dog-finder/internal/shared/errors"
)

func failBreeds(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/dogs/breeds" {
			http.Error(w, "breeds unavailable", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func TestLogin_BreedFailureStillLoadsFirstPage(t *testing.T) {
	h := newHarness(t, failBreeds)

	user, err := h.app.Login(context.Background(), "Ada", "ada@example.com")

	require.True(t, user.Authenticated)
	require.True(t, apperrors.IsKind(err, apperrors.KindFetch))
	require.Equal(t, "loading breeds failed, please try again", apperrors.UserMessage(err))
	require.True(t, h.app.Session.Authenticated())
	require.Empty(t, h.app.Breeds.Filter(""))
	state := h.app.Search.Snapshot()
	require.NoError(t, state.LastError)
	require.Len(t, state.Results, 4)
	require.Equal(t, 4, state.Total)
}

func TestShell_LoginShowsResultsWhenBreedsFail(t *testing.T) {
	h := newHarness(t, failBreeds)

	out, err := h.exec(t, "login Ada ada@example.com")

	require.Error(t, err)
	require.Contains(t, out, "welcome, Ada")
	require.Contains(t, out, "page 1 | 4 dogs")
}
