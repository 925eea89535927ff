// Package config loads runtime configuration for the admin toolkit from the
// environment, with optional .env file support. The Stage-1 submission
// fallback literals live here as named constants; the backend contract
// depends on their exact values, so they are configurable but default to the
// values the production backend expects.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/nuqta-dev/tenadmin/internal/i18n"
)

// Stage-1 coercion fallbacks. Applied only when the corresponding optional
// field was left blank; see provisioning.
const (
	DefaultCommercialRecord  = 123
	DefaultCapacity          = 1
	DefaultSubscriptionPrice = "767.23"
	DefaultStartDate         = "2025-08-01"
	DefaultEndDate           = "2030-01-01"

	// DefaultManagerID is the edit-mode fallback when the loaded client
	// record carries no manager id. A fallback update silently targets
	// manager 1; callers log a warning whenever it fires.
	DefaultManagerID = 1
)

// Defaults groups the Stage-1 coercion values so the workflow can be
// exercised with overrides in tests.
type Defaults struct {
	CommercialRecord  int
	Capacity          int
	SubscriptionPrice string
	StartDate         string
	EndDate           string
	ManagerID         int
}

// StandardDefaults returns the production fallback literals.
func StandardDefaults() Defaults {
	return Defaults{
		CommercialRecord:  DefaultCommercialRecord,
		Capacity:          DefaultCapacity,
		SubscriptionPrice: DefaultSubscriptionPrice,
		StartDate:         DefaultStartDate,
		EndDate:           DefaultEndDate,
		ManagerID:         DefaultManagerID,
	}
}

// Config is the toolkit's runtime configuration.
type Config struct {
	BaseURL       string
	Locale        i18n.Locale
	Timeout       time.Duration
	DataDir       string
	TokenFile     string
	LogLevel      string
	LogFormat     string
	WatchInterval time.Duration
	MetricsAddr   string
	Defaults      Defaults
}

// Load reads configuration from the environment. A .env file in the current
// directory or the data dir is applied first without overriding already-set
// variables.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		BaseURL:       strings.TrimSpace(os.Getenv("TENADMIN_API_URL")),
		Locale:        i18n.ParseLocale(os.Getenv("TENADMIN_LOCALE")),
		Timeout:       envDuration("TENADMIN_TIMEOUT", 30*time.Second),
		DataDir:       strings.TrimSpace(os.Getenv("TENADMIN_DATA_DIR")),
		LogLevel:      strings.TrimSpace(os.Getenv("TENADMIN_LOG_LEVEL")),
		LogFormat:     strings.TrimSpace(os.Getenv("TENADMIN_LOG_FORMAT")),
		WatchInterval: envDuration("TENADMIN_WATCH_INTERVAL", 5*time.Minute),
		MetricsAddr:   strings.TrimSpace(os.Getenv("TENADMIN_METRICS_ADDR")),
		Defaults:      StandardDefaults(),
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".tenadmin")
	}
	cfg.TokenFile = filepath.Join(cfg.DataDir, "session.json")

	if v := os.Getenv("TENADMIN_DEFAULT_PRICE"); v != "" {
		cfg.Defaults.SubscriptionPrice = v
	}
	if v := os.Getenv("TENADMIN_DEFAULT_START_DATE"); v != "" {
		cfg.Defaults.StartDate = v
	}
	if v := os.Getenv("TENADMIN_DEFAULT_END_DATE"); v != "" {
		cfg.Defaults.EndDate = v
	}
	if v := envInt("TENADMIN_DEFAULT_COMMERCIAL_RECORD", 0); v > 0 {
		cfg.Defaults.CommercialRecord = v
	}

	return cfg, cfg.Validate()
}

// Validate checks the loaded configuration for values that would break every
// remote operation.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("TENADMIN_API_URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.WatchInterval < 10*time.Second {
		c.WatchInterval = 10 * time.Second
	}
	return nil
}

// EnvFilePath returns the .env path the loader considers, preferring the
// working directory.
func EnvFilePath() string {
	if _, err := os.Stat(".env"); err == nil {
		return ".env"
	}
	return ""
}

func loadEnvFile() {
	if path := EnvFilePath(); path != "" {
		if err := godotenv.Load(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to load .env file")
		}
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("Invalid duration; using default")
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("Invalid integer; using default")
		return fallback
	}
	return n
}
