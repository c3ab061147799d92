package config

import "time"

// Config holds runtime settings for the StockSentry CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend REST endpoint.
//   - DatabaseDSN: path of the local SQLite database file.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - SyncInitialDelay: pause before the first background sync attempt.
//   - SyncBackoffBase: starting retry interval for a failed sync pass.
//   - SyncBackoffCap: upper bound the retry interval grows toward.
//
// Units: all intervals are time.Duration values (e.g., 3*time.Second).
type Config struct {
	ServerEndpointAddr  string
	DatabaseDSN         string
	OnlineCheckInterval time.Duration
	SyncInitialDelay    time.Duration
	SyncBackoffBase     time.Duration
	SyncBackoffCap      time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabaseDSN = "stocksentry.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.SyncInitialDelay = 5 * time.Second
	c.SyncBackoffBase = 30 * time.Second
	c.SyncBackoffCap = 10 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
