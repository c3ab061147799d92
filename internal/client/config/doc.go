// Package config loads runtime configuration for the StockSentry CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST endpoint
//	-d string   path of the local SQLite database file
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "http://127.0.0.1:8080",
//	  "database_dsn": "stocksentry.db",
//	  "online_check_interval": "3s",
//	  "sync_initial_delay": "5s",
//	  "sync_backoff_base": "30s",
//	  "sync_backoff_cap": "10m"
//	}
//
// Primary API
//
//   - type Config                     — runtime settings incl. sync timing
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
