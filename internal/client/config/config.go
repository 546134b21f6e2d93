package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/memorymap/internal/logging"
)

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the MemoryMap CLI.
//
// RequestTimeout of zero leaves requests bounded only by the caller's
// context.
type Config struct {
	APIBaseURL          string
	DatabasePath        string
	StorageDriver       string
	RedisURL            string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	LogFormat           logging.Format
	Development         bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:3000"
	c.DatabasePath = defaultDatabasePath()
	c.StorageDriver = DriverSQLite
	c.RedisURL = "redis://localhost:6379/0"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 0
	c.LogFormat = logging.FormatText
	c.Development = false
}

func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "memorymap.db"
	}
	return filepath.Join(dir, "memorymap", "memorymap.db")
}

// Validate reports settings no component could start with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("%w: empty database path", ErrInvalidConfig)
		}
	case DriverRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: empty redis url", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.StorageDriver)
	}

	switch c.LogFormat {
	case logging.FormatText, logging.FormatJSON, logging.FormatConsole:
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}

	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("%w: online check interval must be positive", ErrInvalidConfig)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("%w: negative request timeout", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
