package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/memorymap/internal/logging"
)

const envPrefix = "MEMORYMAP_"

// parseEnv overlays Config with MEMORYMAP_* environment variables. A .env
// file in the working directory is loaded first; variables already set in
// the process environment win over it. Malformed values panic, like the
// other loaders.
func parseEnv(cfg *Config) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := lookup("API_URL"); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := lookup("DB_PATH"); ok {
		cfg.DatabasePath = v
	}
	if v, ok := lookup("STORAGE_DRIVER"); ok {
		cfg.StorageDriver = v
	}
	if v, ok := lookup("REDIS_URL"); ok {
		cfg.RedisURL = v
	}
	if v, ok := lookup("ONLINE_CHECK_INTERVAL"); ok {
		cfg.OnlineCheckInterval = mustDuration(v)
	}
	if v, ok := lookup("REQUEST_TIMEOUT"); ok {
		cfg.RequestTimeout = mustDuration(v)
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		cfg.LogFormat = logging.Format(v)
	}
	if v, ok := lookup("DEVELOPMENT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		cfg.Development = b
	}
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func mustDuration(v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	return d
}
