package dogfinder

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"FETCH_API_BASE_URL", "FETCH_HTTP_TIMEOUT", "FETCH_RATE_LIMIT_RPS", "FETCH_RATE_LIMIT_BURST",
	"DOGFINDER_PAGE_SIZE", "LOG_LEVEL", "DOGFINDER_LOG_FILE", "DOGFINDER_HISTORY_FILE",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig("")

	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.Equal(t, 20, cfg.PageSize)
	require.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "dogfinder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: http://localhost:8080
timeout: 3s
page_size: 50
log_level: debug
`), 0o600))
	t.Setenv("DOGFINDER_PAGE_SIZE", "40")
	t.Setenv("FETCH_RATE_LIMIT_RPS", "0")

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.BaseURL)
	require.Equal(t, 3*time.Second, cfg.Timeout)
	require.Equal(t, 40, cfg.PageSize)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Zero(t, cfg.RateLimitRPS)
}

func TestLoadConfig_Rejects(t *testing.T) {
	clearConfigEnv(t)

	t.Setenv("DOGFINDER_PAGE_SIZE", "500")
	_, err := LoadConfig("")
	require.ErrorContains(t, err, "page size")

	t.Setenv("DOGFINDER_PAGE_SIZE", "")
	t.Setenv("FETCH_HTTP_TIMEOUT", "soon")
	_, err = LoadConfig("")
	require.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
