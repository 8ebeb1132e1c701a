// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import "time"

// DefaultLeaderboardURL is the pool leaderboard polled when none is configured.
const DefaultLeaderboardURL = "https://www.easyofficepools.com/leaderboard/?p=349290&scoring=To%20Par"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the optional HTTP dashboard, e.g. ":9080". Empty disables it.
	Addr string `koanf:"addr"`

	// LeaderboardURL is the page fetched every cycle.
	LeaderboardURL string `koanf:"leaderboard_url"`

	// UserAgent is sent with every fetch.
	UserAgent string `koanf:"user_agent"`

	// TopN is the size of the ranked snapshot.
	TopN int `koanf:"top_n"`

	// RefreshIntervalSeconds is the pause between cycles.
	RefreshIntervalSeconds int `koanf:"refresh_interval_seconds"`

	// FetchTimeoutSeconds bounds a single fetch; 0 means no timeout.
	FetchTimeoutSeconds int `koanf:"fetch_timeout_seconds"`

	// Window* gate the active diff path to a time-of-day range.
	WindowEnabled   bool   `koanf:"window_enabled"`
	WindowStartHour int    `koanf:"window_start_hour"`
	WindowEndHour   int    `koanf:"window_end_hour"`
	WindowTimezone  string `koanf:"window_timezone"`

	// Color enables ANSI colors for movement glyphs.
	Color bool `koanf:"color"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   "",
		LeaderboardURL:         DefaultLeaderboardURL,
		UserAgent:              "poolwatch/1.0",
		TopN:                   10,
		RefreshIntervalSeconds: 20,
		FetchTimeoutSeconds:    0,
		WindowEnabled:          false,
		WindowStartHour:        8,
		WindowEndHour:          20,
		WindowTimezone:         "America/New_York",
		Color:                  true,
	}
}

// RefreshInterval returns the refresh interval as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// FetchTimeout returns the fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}
