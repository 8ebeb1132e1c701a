package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/poolwatch/internal/domain/schedule"
)

// Environment settings.
const (
	envPrefix   = "POOLWATCH_"
	envConfig   = "POOLWATCH_CONFIG"
	dotEnvFile  = ".env"
	maxInterval = 3600
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if POOLWATCH_CONFIG is set
//  3. env (prefix POOLWATCH_), after loading ./.env when present
func Load(_ context.Context) (*Config, error) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, dotEnvFile, err)
	}

	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// POOLWATCH_TOP_N -> top_n (flat keys, underscores preserved).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(envPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config for values the refresher cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LeaderboardURL) == "" {
		return fmt.Errorf("%w: leaderboard_url must not be empty", ErrInvalidConfig)
	}
	u, err := url.Parse(c.LeaderboardURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: leaderboard_url %q is not an absolute URL", ErrInvalidConfig, c.LeaderboardURL)
	}
	if c.TopN < 1 {
		return fmt.Errorf("%w: top_n must be at least 1", ErrInvalidConfig)
	}
	if c.RefreshIntervalSeconds < 1 || c.RefreshIntervalSeconds > maxInterval {
		return fmt.Errorf("%w: refresh_interval_seconds must be between 1 and %d", ErrInvalidConfig, maxInterval)
	}
	if c.FetchTimeoutSeconds < 0 {
		return fmt.Errorf("%w: fetch_timeout_seconds must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Window(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Window builds the active time-of-day window described by the config.
func (c *Config) Window() (schedule.Window, error) {
	if !c.WindowEnabled {
		return schedule.Always(), nil
	}
	return schedule.NewWindow(c.WindowStartHour, c.WindowEndHour, c.WindowTimezone)
}
