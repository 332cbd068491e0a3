// ABOUTME: Runtime configuration for the leadgen client
// ABOUTME: Resolves defaults, .env values, and LEADGEN_* environment overrides into one Config
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIBaseURL = "http://localhost:8000"
	DefaultTimeout    = 30 * time.Second
	DefaultStorage    = "sqlite"
	appName           = "leadgen"
)

// Storage backends accepted by LEADGEN_STORAGE.
var StorageBackends = []string{"sqlite", "badger", "charm"}

type Config struct {
	APIBaseURL         string
	GoogleClientID     string
	GoogleClientSecret string
	Timeout            time.Duration
	StorageBackend     string
	DataDir            string
	StateDir           string
	LogLevel           string
	LogDev             bool
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		APIBaseURL:     DefaultAPIBaseURL,
		Timeout:        DefaultTimeout,
		StorageBackend: DefaultStorage,
		DataDir:        filepath.Join(xdg.DataHome, appName),
		StateDir:       filepath.Join(xdg.StateHome, appName),
		LogLevel:       "info",
	}
}

// Load reads an optional .env file in the working directory and then applies
// environment overrides:
// - LEADGEN_API_BASE_URL
// - LEADGEN_GOOGLE_CLIENT_ID
// - LEADGEN_GOOGLE_CLIENT_SECRET
// - LEADGEN_TIMEOUT (Go duration or whole seconds)
// - LEADGEN_STORAGE (sqlite, badger, charm)
// - LEADGEN_DATA_DIR
// - LOG_LEVEL, LOG_DEV.
func Load() (*Config, error) {
	// Missing .env is fine; real environment wins over it either way.
	_ = godotenv.Load()

	cfg := Default()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LEADGEN_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("LEADGEN_GOOGLE_CLIENT_ID"); v != "" {
		cfg.GoogleClientID = v
	}
	if v := os.Getenv("LEADGEN_GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.GoogleClientSecret = v
	}
	if v := os.Getenv("LEADGEN_TIMEOUT"); v != "" {
		d, err := ParseTimeout(v)
		if err != nil {
			return err
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("LEADGEN_STORAGE"); v != "" {
		cfg.StorageBackend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("LEADGEN_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_DEV"); v != "" {
		cfg.LogDev = v == "1" || v == "true"
		if cfg.LogDev && os.Getenv("LOG_LEVEL") == "" {
			cfg.LogLevel = "debug"
		}
	}
	return nil
}

// ParseTimeout accepts "45s"-style durations or a bare number of seconds.
func ParseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.Atoi(s); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("invalid timeout %q: must be positive", s)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q: must be positive", s)
	}
	return d, nil
}

// Validate checks values that would otherwise fail much later.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API base URL is empty")
	}
	known := false
	for _, b := range StorageBackends {
		if c.StorageBackend == b {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown storage backend %q (want sqlite, badger, or charm)", c.StorageBackend)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// DatabasePath is the sqlite file used by the default storage backend.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "leadgen.db")
}

// BadgerDir holds the badger storage backend.
func (c *Config) BadgerDir() string {
	return filepath.Join(c.DataDir, "badger")
}

// LogDir is where rotated log files are written.
func (c *Config) LogDir() string {
	return filepath.Join(c.StateDir, "logs")
}

// HasGoogleCredentials reports whether interactive Google sign-in is possible.
func (c *Config) HasGoogleCredentials() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}
