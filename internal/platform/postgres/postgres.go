package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Apurer/go-dog-finder/internal/platform/migrations"
)

// ErrNoDSN means the catalog was not given a database; callers serve from memory instead.
var ErrNoDSN = errors.New("catalog database DSN is empty")

// DSNEnv names the variable the catalog database DSN is read from.
const DSNEnv = "POSTGRES_DSN"

type settings struct {
	pingTimeout  time.Duration
	maxOpenConns int
	migrate      bool
}

// Option tunes how the catalog database is opened.
type Option func(*settings)

// WithPingTimeout bounds the connectivity check.
func WithPingTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.pingTimeout = d
		}
	}
}

// WithMaxOpenConns caps the pool shared by the dog and session tables.
func WithMaxOpenConns(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}

// WithoutMigrations opens an existing schema as is, for maintenance jobs that must not alter it.
func WithoutMigrations() Option {
	return func(s *settings) { s.migrate = false }
}

// DSNFromEnv returns the configured catalog DSN, or "" when unset.
func DSNFromEnv() string {
	return strings.TrimSpace(os.Getenv(DSNEnv))
}

// OpenCatalog connects to the database holding the dog catalog and login sessions, checks that it
// answers, and brings the dog and session tables up to date. The returned close func releases the pool.
func OpenCatalog(ctx context.Context, dsn string, opts ...Option) (*gorm.DB, func(), error) {
	cfg := settings{pingTimeout: 5 * time.Second, maxOpenConns: 10, migrate: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, ErrNoDSN
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("catalog connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.maxOpenConns)
	closeDB := func() { _ = sqlDB.Close() }

	pingCtx, cancel := context.WithTimeout(ctx, cfg.pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("reach catalog database: %w", err)
	}
	if cfg.migrate {
		if err := migrations.Run(db.WithContext(ctx)); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("migrate dog and session tables: %w", err)
		}
	}
	return db, closeDB, nil
}
