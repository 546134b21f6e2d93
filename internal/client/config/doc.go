// Package config loads runtime configuration for the MemoryMap CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment, optionally seeded from a .env file in the working
//     directory (see parseEnv). Variables are prefixed MEMORYMAP_.
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the travel-journal API
//	-d string   path of the local SQLite database
//	-i int      online status check interval (seconds)
//	-t int      request timeout (seconds, 0 disables)
//
// # Environment
//
//	MEMORYMAP_API_URL                 http://localhost:3000
//	MEMORYMAP_DB_PATH                 <user config dir>/memorymap/memorymap.db
//	MEMORYMAP_STORAGE_DRIVER          sqlite | redis
//	MEMORYMAP_REDIS_URL               redis://localhost:6379/0
//	MEMORYMAP_ONLINE_CHECK_INTERVAL   duration, e.g. 3s
//	MEMORYMAP_REQUEST_TIMEOUT         duration, e.g. 10s
//	MEMORYMAP_LOG_FORMAT              text | json | console
//	MEMORYMAP_DEVELOPMENT             bool
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds. Absent keys keep earlier values:
//
//	{
//	  "api_base_url": "http://localhost:3000",
//	  "database_path": "/tmp/memorymap.db",
//	  "storage_driver": "sqlite",
//	  "online_check_interval": "3s",
//	  "request_timeout": "10s",
//	  "log_format": "console",
//	  "development": true
//	}
package config
