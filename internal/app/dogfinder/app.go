package dogfinder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Apurer/go-dog-finder/internal/clients/http/fetchapi"
	dogsexternal "github.com/Apurer/go-dog-finder/internal/domains/dogs/adapters/external/fetchapi"
	dogsobs "github.com/Apurer/go-dog-finder/internal/domains/dogs/adapters/observability"
	dogsapp "github.com/Apurer/go-dog-finder/internal/domains/dogs/application"
	dogsdomain "github.com/Apurer/go-dog-finder/internal/domains/dogs/domain"
	sessionexternal "github.com/Apurer/go-dog-finder/internal/domains/session/adapters/external/fetchapi"
	sessionobs "github.com/Apurer/go-dog-finder/internal/domains/session/adapters/observability"
	sessionapp "github.com/Apurer/go-dog-finder/internal/domains/session/application"
	sessiondomain "github.com/Apurer/go-dog-finder/internal/domains/session/domain"
	sessionports "github.com/Apurer/go-dog-finder/internal/domains/session/ports"
	platformobservability "github.com/Apurer/go-dog-finder/internal/platform/observability"
)

// App is the wired client core the shell drives.
type App struct {
	Session   sessionports.Service
	Breeds    *dogsapp.BreedLoader
	Search    *dogsapp.SearchController
	Favorites *dogsdomain.Favorites
	Matcher   *dogsapp.Matcher

	logger *slog.Logger
}

// NewApp builds the client against cfg.BaseURL. instruments may be nil, in which case nothing is
// logged or traced.
func NewApp(cfg Config, instruments *platformobservability.Instruments, clientOpts ...fetchapi.Option) (*App, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if instruments != nil && instruments.Logger != nil {
		logger = instruments.Logger
	}

	opts := []fetchapi.Option{
		fetchapi.WithTimeout(cfg.Timeout),
		fetchapi.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		fetchapi.WithLogger(logger),
	}
	client, err := fetchapi.New(cfg.BaseURL, append(opts, clientOpts...)...)
	if err != nil {
		return nil, fmt.Errorf("build fetch api client: %w", err)
	}

	session := sessionobs.New(
		sessionapp.NewService(sessionexternal.NewAuthenticator(client)),
		sessionobs.WithLogger(logger),
		sessionobs.WithTracer(instruments.Tracer("internal.session.application")),
		sessionobs.WithMeter(instruments.Meter("internal.session.application")),
	)
	catalog := dogsobs.New(
		dogsexternal.NewCatalog(client),
		dogsobs.WithLogger(logger),
		dogsobs.WithTracer(instruments.Tracer("internal.dogs.catalog")),
		dogsobs.WithMeter(instruments.Meter("internal.dogs.catalog")),
	)

	app := &App{
		Session:   session,
		Breeds:    dogsapp.NewBreedLoader(catalog, session),
		Search:    dogsapp.NewSearchController(catalog, session, dogsapp.WithDefaultPageSize(cfg.PageSize)),
		Favorites: dogsdomain.NewFavorites(),
		Matcher:   dogsapp.NewMatcher(catalog, session),
		logger:    logger,
	}
	session.OnEnd(app.onSessionEnd)
	return app, nil
}

// onSessionEnd drops everything that belonged to the finished session. After an expiry the search keeps
// its last page and error so the expiry message can still be shown; the next login refreshes it.
func (a *App) onSessionEnd(ctx context.Context, reason sessiondomain.EndReason) {
	a.Favorites.Clear()
	a.Matcher.Reset()
	a.Breeds.Reset()
	if reason == sessiondomain.EndLogout {
		a.Search.Reset()
	}
	a.logger.LogAttrs(ctx, slog.LevelDebug, "session state cleared", slog.String("reason", string(reason)))
}

// Login signs in and loads the breeds and the first page of results. A breed failure does not stop
// the search; both errors are returned joined.
func (a *App) Login(ctx context.Context, name, email string) (sessiondomain.UserSession, error) {
	user, err := a.Session.Login(ctx, name, email)
	if err != nil {
		return sessiondomain.UserSession{}, err
	}
	_, breedsErr := a.Breeds.Load(ctx)
	if !a.Session.Authenticated() {
		return user, breedsErr
	}
	return user, errors.Join(breedsErr, a.Search.Refresh(ctx))
}
