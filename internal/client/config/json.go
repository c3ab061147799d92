package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/stocksentry/internal/flagx"
	"github.com/dmitrijs2005/stocksentry/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	DatabaseDSN         string         `json:"database_dsn"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	SyncInitialDelay    timex.Duration `json:"sync_initial_delay"`
	SyncBackoffBase     timex.Duration `json:"sync_backoff_base"`
	SyncBackoffCap      timex.Duration `json:"sync_backoff_cap"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies known fields into the provided Config; zero durations keep
//     the value already present (defaults survive omitted keys).
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	overlayDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	overlayDuration(&cfg.SyncInitialDelay, jc.SyncInitialDelay)
	overlayDuration(&cfg.SyncBackoffBase, jc.SyncBackoffBase)
	overlayDuration(&cfg.SyncBackoffCap, jc.SyncBackoffCap)
}

func overlayDuration(dst *time.Duration, src timex.Duration) {
	if src.Duration != 0 {
		*dst = src.Duration
	}
}
