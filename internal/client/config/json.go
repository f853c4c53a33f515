package config

import (
	"encoding/json"
	"os"

	"github.com/pr-poehali-dev/onlimess/internal/flagx"
	"github.com/pr-poehali-dev/onlimess/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Durations may
// be given as strings like "3s" or as integer nanoseconds.
type jsonConfig struct {
	ServerURL        string         `json:"server_url"`
	DatabasePath     string         `json:"database_path"`
	PollInterval     timex.Duration `json:"poll_interval"`
	TypingResetDelay timex.Duration `json:"typing_reset_delay"`
}

// parseJSON overlays Config with values from the JSON file given via the
// -c/-config flags. When no file is configured, it does nothing. Read and
// unmarshal errors panic; the caller decides whether to recover.
func parseJSON(cfg *Config) {
	path := flagx.JSONConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.PollInterval.Duration > 0 {
		cfg.PollInterval = jc.PollInterval.Duration
	}
	if jc.TypingResetDelay.Duration > 0 {
		cfg.TypingResetDelay = jc.TypingResetDelay.Duration
	}
}
