// Package config loads runtime settings for the OnliMess client.
//
// Sources are applied in order: built-in defaults, then a JSON file (when
// given via -c/-config), then command-line flags. Later sources win.
package config

import "time"

// Config holds runtime settings for the messenger CLI.
//
// PollInterval is how often the synchronizer reconciles against the store;
// TypingResetDelay is how long a typing flag holds after the last keystroke.
type Config struct {
	ServerURL        string
	DatabasePath     string
	PollInterval     time.Duration
	TypingResetDelay time.Duration
}

// LoadDefaults populates c with the stock settings: 1s polling and a 3s
// typing reset, matching the store's expectations.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabasePath = "onlimess.db"
	c.PollInterval = 1 * time.Second
	c.TypingResetDelay = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
