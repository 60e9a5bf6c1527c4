package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCatalog_EmptyDSNMeansMemory(t *testing.T) {
	for _, dsn := range []string{"", "   "} {
		db, closeDB, err := OpenCatalog(context.Background(), dsn)
		require.ErrorIs(t, err, ErrNoDSN)
		assert.Nil(t, db)
		assert.Nil(t, closeDB)
	}
}

func TestDSNFromEnv_Trims(t *testing.T) {
	t.Setenv(DSNEnv, "  postgres://u:p@localhost/catalog  ")
	assert.Equal(t, "postgres://u:p@localhost/catalog", DSNFromEnv())

	t.Setenv(DSNEnv, "")
	assert.Empty(t, DSNFromEnv())
}

func TestOptions_IgnoreNonPositive(t *testing.T) {
	cfg := settings{pingTimeout: 5, maxOpenConns: 10, migrate: true}
	WithPingTimeout(0)(&cfg)
	WithMaxOpenConns(-1)(&cfg)
	assert.EqualValues(t, 5, cfg.pingTimeout)
	assert.Equal(t, 10, cfg.maxOpenConns)

	WithMaxOpenConns(3)(&cfg)
	WithoutMigrations()(&cfg)
	assert.Equal(t, 3, cfg.maxOpenConns)
	assert.False(t, cfg.migrate)
}
