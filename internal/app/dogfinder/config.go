package dogfinder

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Apurer/go-dog-finder/internal/clients/http/fetchapi"
	dogsdomain "github.com/Apurer/go-dog-finder/internal/domains/dogs/domain"
)

// Config carries the CLI settings. Precedence, lowest first: defaults, YAML file, environment, flags.
type Config struct {
	BaseURL        string        `yaml:"base_url"`
	Timeout        time.Duration `yaml:"timeout"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps"`
	RateLimitBurst int           `yaml:"rate_limit_burst"`
	PageSize       int           `yaml:"page_size"`
	LogLevel       string        `yaml:"log_level"`
	LogFile        string        `yaml:"log_file"`
	HistoryFile    string        `yaml:"history_file"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		BaseURL:        fetchapi.DefaultBaseURL,
		Timeout:        fetchapi.DefaultTimeout,
		RateLimitRPS:   5,
		RateLimitBurst: 5,
		PageSize:       dogsdomain.DefaultPageSize,
		LogLevel:       "info",
	}
}

// LoadConfig layers the YAML file at path (optional) and the environment over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	c.BaseURL = envDefault("FETCH_API_BASE_URL", c.BaseURL)
	c.LogLevel = envDefault("LOG_LEVEL", c.LogLevel)
	c.LogFile = envDefault("DOGFINDER_LOG_FILE", c.LogFile)
	c.HistoryFile = envDefault("DOGFINDER_HISTORY_FILE", c.HistoryFile)

	if raw := strings.TrimSpace(os.Getenv("FETCH_HTTP_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("FETCH_HTTP_TIMEOUT must be a duration such as 10s")
		}
		c.Timeout = d
	}
	if raw := strings.TrimSpace(os.Getenv("FETCH_RATE_LIMIT_RPS")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("FETCH_RATE_LIMIT_RPS must be a number")
		}
		c.RateLimitRPS = v
	}
	if raw := strings.TrimSpace(os.Getenv("FETCH_RATE_LIMIT_BURST")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("FETCH_RATE_LIMIT_BURST must be an integer")
		}
		c.RateLimitBurst = v
	}
	if raw := strings.TrimSpace(os.Getenv("DOGFINDER_PAGE_SIZE")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("DOGFINDER_PAGE_SIZE must be an integer")
		}
		c.PageSize = v
	}
	return nil
}

// Validate checks basic constraints.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.BaseURL) == "" {
		errs = append(errs, errors.New("base URL is required"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.PageSize <= 0 || c.PageSize > dogsdomain.MaxPageSize {
		errs = append(errs, fmt.Errorf("page size must be between 1 and %d", dogsdomain.MaxPageSize))
	}
	if c.RateLimitRPS < 0 {
		errs = append(errs, errors.New("rate limit must not be negative"))
	}
	return errors.Join(errs...)
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
