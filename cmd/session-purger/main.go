package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	catalogpostgres "github.com/Apurer/go-dog-finder/internal/domains/catalog/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/go-dog-finder/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, closeDB, err := platformpostgres.OpenCatalog(ctx, platformpostgres.DSNFromEnv(), platformpostgres.WithoutMigrations())
	if err != nil {
		log.Fatalf("cannot purge sessions: %v", err)
	}
	defer closeDB()

	store := catalogpostgres.NewSessionStore(db)
	purged, err := store.PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("failed to purge sessions: %v", err)
	}
	logger.Info("session purge completed", slog.Int64("purged", purged))
}
