package catalogapi

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries environment-driven settings for the catalog service.
type Config struct {
	Port                 string
	PostgresDSN          string
	SeedCount            int
	SessionTTL           time.Duration
	SessionPurgeInterval time.Duration
	SecureCookie         bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:                 envDefault("PORT", "8080"),
		PostgresDSN:          strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		SeedCount:            200,
		SessionTTL:           time.Hour,
		SessionPurgeInterval: 10 * time.Minute,
		SecureCookie:         isTruthy(os.Getenv("CATALOG_SECURE_COOKIE")),
	}
	if raw := strings.TrimSpace(os.Getenv("CATALOG_SEED_COUNT")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("CATALOG_SEED_COUNT must be a non-negative integer")
		}
		cfg.SeedCount = n
	}
	var err error
	if cfg.SessionTTL, err = envDuration("CATALOG_SESSION_TTL", cfg.SessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.SessionPurgeInterval, err = envDuration("SESSION_PURGE_INTERVAL", cfg.SessionPurgeInterval); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr is the listen address for Port.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 30m", key)
	}
	return d, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
