package catalogapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	cataloghttp "github.com/Apurer/go-dog-finder/internal/domains/catalog/adapters/http/handler"
	catalogmemory "github.com/Apurer/go-dog-finder/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-dog-finder/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/go-dog-finder/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/go-dog-finder/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-dog-finder/internal/domains/catalog/ports"
	platformobservability "github.com/Apurer/go-dog-finder/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-dog-finder/internal/platform/postgres"
)

const serviceName = "dog-catalog-api"

// Run boots the catalog HTTP API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repo, sessions, cleanup := buildStores(ctx, cfg, logger)
	defer cleanup()

	seeded, err := catalogapp.Seed(ctx, repo, cfg.SeedCount, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if seeded > 0 {
		logger.Info("catalog seeded", slog.Int("dogs", seeded))
	}

	service := catalogobs.New(
		catalogapp.NewService(repo, sessions, catalogapp.WithSessionTTL(cfg.SessionTTL)),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)

	api := cataloghttp.NewCatalogAPI(service, cataloghttp.WithSecureCookie(cfg.SecureCookie))
	router := cataloghttp.NewRouter(api,
		otelgin.Middleware(serviceName),
		cataloghttp.RequestID(),
		cataloghttp.AccessLog(logger),
	)

	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	go purgeSessions(purgeCtx, sessions, cfg.SessionPurgeInterval, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("catalog API listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("catalog API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown catalog API: %w", err)
	}
	logger.Info("catalog API stopped")
	return nil
}

func buildStores(ctx context.Context, cfg Config, logger *slog.Logger) (catalogports.Repository, catalogports.SessionStore, func()) {
	db, closeDB, err := platformpostgres.OpenCatalog(ctx, cfg.PostgresDSN)
	if err != nil {
		if errors.Is(err, platformpostgres.ErrNoDSN) {
			logger.Warn("POSTGRES_DSN not set, serving catalog and sessions from memory")
		} else {
			logger.Warn("catalog database unavailable, serving catalog and sessions from memory", slog.String("error", err.Error()))
		}
		return catalogmemory.NewRepository(), catalogmemory.NewSessionStore(), func() {}
	}
	logger.Info("catalog configured with postgres")
	return catalogpostgres.NewRepository(db), catalogpostgres.NewSessionStore(db), closeDB
}

// purgeSessions drops expired sessions every interval until ctx ends.
func purgeSessions(ctx context.Context, store catalogports.SessionStore, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("session purge failed", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				logger.Info("expired sessions purged", slog.Int64("count", n))
			}
		}
	}
}
