package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/stakr/internal/flagx"
)

// Config holds runtime settings for the STAKR CLI.
//
// Fields:
//   - ServerURL: base URL of the HTTP API, without a trailing slash.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestTimeout: upper bound for a single API call.
type Config struct {
	ServerURL           string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	jsonPath, _ := flagx.ConfigFiles(os.Args[1:])
	parseJson(cfg, jsonPath)
	parseFlags(cfg)
	return cfg
}
