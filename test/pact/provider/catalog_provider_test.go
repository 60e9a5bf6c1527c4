//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"

	cataloghttp "github.com/Apurer/go-dog-finder/internal/domains/catalog/adapters/http/handler"
	catalogmemory "github.com/Apurer/go-dog-finder/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-dog-finder/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/go-dog-finder/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-dog-finder/internal/domains/catalog/domain"
	pacttest "github.com/Apurer/go-dog-finder/test/pact"
)

func TestDogCatalogProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t, false)
			return nil, nil
		},
		pacttest.StateSignedIn: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t, setup)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t, false)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds the catalog from scratch on every state change.
type contractProviderApp struct {
	mu     sync.RWMutex
	router http.Handler
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t, false)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB, signedIn bool) {
	t.Helper()
	ctx := context.Background()

	repo := catalogmemory.NewRepository()
	require.NoError(t, repo.Save(ctx, dogFromPayload(pacttest.ExampleDog()), dogFromPayload(pacttest.ExampleBeagle())))
	sessions := catalogmemory.NewSessionStore()
	if signedIn {
		require.NoError(t, sessions.Save(ctx, catalogdomain.Session{
			Token:     pacttest.SessionToken,
			Name:      "Pact Visitor",
			Email:     "visitor@example.com",
			ExpiresAt: time.Now().Add(time.Hour),
		}))
	}

	service := catalogobs.New(catalogapp.NewService(repo, sessions,
		catalogapp.WithTokenSource(func() string { return pacttest.SessionToken }),
		catalogapp.WithPicker(func(int) int { return 0 }),
	))
	router := cataloghttp.NewRouter(cataloghttp.NewCatalogAPI(service), cataloghttp.RequestID())

	a.mu.Lock()
	a.router = router
	a.mu.Unlock()
}

func dogFromPayload(p map[string]any) catalogdomain.Dog {
	return catalogdomain.Dog{
		ID:       p["id"].(string),
		ImageURL: p["img"].(string),
		Name:     p["name"].(string),
		Age:      p["age"].(int),
		ZipCode:  p["zip_code"].(string),
		Breed:    p["breed"].(string),
	}
}
