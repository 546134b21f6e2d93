package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/memorymap/internal/logging"
)

func defaults() *Config {
	return &Config{
		APIBaseURL:          "http://localhost:3000",
		DatabasePath:        defaultDatabasePath(),
		StorageDriver:       DriverSQLite,
		RedisURL:            "redis://localhost:6379/0",
		OnlineCheckInterval: 3 * time.Second,
		LogFormat:           logging.FormatText,
	}
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Empty(t, cmp.Diff(defaults(), &c))
	assert.Zero(t, c.RequestTimeout)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	chdir(t, t.TempDir())

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://localhost:3000", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	chdir(t, t.TempDir())

	t.Setenv("MEMORYMAP_API_URL", "http://env:1")
	t.Setenv("MEMORYMAP_DB_PATH", "/env/db")
	path := writeTempJSON(t, "", "", map[string]any{
		"database_path":   "/json/db",
		"request_timeout": "7s",
	})
	os.Args = []string{"testbin", "-c", path, "-a", "http://flag:2"}

	cfg := LoadConfig()

	assert.Equal(t, "http://flag:2", cfg.APIBaseURL)
	assert.Equal(t, "/json/db", cfg.DatabasePath)
	assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"redis", func(c *Config) { c.StorageDriver = DriverRedis }, false},
		{"redis without url", func(c *Config) { c.StorageDriver = DriverRedis; c.RedisURL = "" }, true},
		{"unknown driver", func(c *Config) { c.StorageDriver = "bolt" }, true},
		{"empty db path", func(c *Config) { c.DatabasePath = "" }, true},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"zero interval", func(c *Config) { c.OnlineCheckInterval = 0 }, true},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// chdir is the Go 1.21 equivalent of t.Chdir: it changes the working
// directory for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}
