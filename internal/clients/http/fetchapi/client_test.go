package fetchapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithHTTPClient(srv.Client())}, opts...)
	c, err := New(srv.URL+"/", opts...)
	require.NoError(t, err)
	return c
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New("   ")
	require.Error(t, err)
}

func TestLogin_StoresSessionCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, loginRequest{Name: "Ada", Email: "ada@example.com"}, body)
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "tok", Path: "/"})
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("GET /dogs/breeds", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || cookie.Value != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]string{"Beagle", "Pug"})
	})
	c := newTestClient(t, mux)

	_, err := c.Breeds(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, c.Login(context.Background(), "Ada", "ada@example.com"))
	breeds, err := c.Breeds(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Beagle", "Pug"}, breeds)
}

func TestLogin_RejectedStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"/problems/validation-error","title":"Validation Error","status":400,"detail":"email is invalid"}`))
	}))

	err := c.Login(context.Background(), "Ada", "nope")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusBadRequest, se.StatusCode)
	require.NotNil(t, se.Problem)
	require.Equal(t, "email is invalid", se.Problem.Detail)
	require.True(t, IsStatus(err, http.StatusBadRequest))
}

func TestSearch_EncodesQueryInOrder(t *testing.T) {
	var rawQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(SearchResult{ResultIDs: []string{"b", "a"}, Total: 42, Next: "cur-2"})
	}))
	two := 2

	got, err := c.Search(context.Background(), SearchParams{
		Breeds: []string{"Poodle", "Husky"},
		AgeMin: &two,
		Sort:   "age:desc",
		Size:   20,
	})
	require.NoError(t, err)

	decoded, err := url.QueryUnescape(rawQuery)
	require.NoError(t, err)
	if diff := cmp.Diff("breeds=Poodle&breeds=Husky&ageMin=2&sort=age:desc&size=20", decoded); diff != "" {
		t.Fatalf("query mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, SearchResult{ResultIDs: []string{"b", "a"}, Total: 42, Next: "cur-2"}, got)
}

func TestSearch_PassesCursorVerbatim(t *testing.T) {
	var from string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		from = r.URL.Query().Get("from")
		_ = json.NewEncoder(w).Encode(SearchResult{})
	}))
	token := "/dogs/search?size=25&from=25"

	_, err := c.Search(context.Background(), SearchParams{Sort: "breed:asc", Size: 25, From: token})

	require.NoError(t, err)
	require.Equal(t, token, from)
}

func TestDogs_PostsIDsAndDecodesRecords(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/dogs", r.URL.Path)
		var ids []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ids))
		require.Equal(t, []string{"a", "b"}, ids)
		_, _ = w.Write([]byte(`[{"id":"a","img":"http://img/a","name":"Ace","age":3,"zip_code":"10001","breed":"Pug"}]`))
	}))

	dogs, err := c.Dogs(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	require.Equal(t, []Dog{{ID: "a", Img: "http://img/a", Name: "Ace", Age: 3, ZipCode: "10001", Breed: "Pug"}}, dogs)
}

func TestDogs_EmptyIDsSkipsCall(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	dogs, err := c.Dogs(context.Background(), nil)

	require.NoError(t, err)
	require.Nil(t, dogs)
	require.Zero(t, calls.Load())
}

func TestMatch(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/dogs/match", r.URL.Path)
		_, _ = w.Write([]byte(`{"match":"b"}`))
	}))

	id, err := c.Match(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	require.Equal(t, "b", id)
}

func TestDo_SetsRequestID(t *testing.T) {
	var got string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(RequestIDHeader)
		_, _ = w.Write([]byte(`[]`))
	}), WithRequestIDs(func() string { return "req-1" }))

	_, err := c.Breeds(context.Background())

	require.NoError(t, err)
	require.Equal(t, "req-1", got)
}

func TestDo_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()
	c, err := New(base, WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = c.Breeds(context.Background())

	require.ErrorIs(t, err, ErrTransport)
}

func TestDo_MalformedBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resultIds":`))
	}))

	_, err := c.Search(context.Background(), SearchParams{Sort: "breed:asc", Size: 20})

	require.True(t, errors.Is(err, ErrDecode))
}

func TestDo_RateLimitHonoursContext(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}), WithRateLimit(0.001, 1))

	_, err := c.Breeds(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Breeds(ctx)
	require.ErrorIs(t, err, ErrTransport)
}
