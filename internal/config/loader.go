package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MATCHUP_CONFIG is set
//  3. env (prefix MATCHUP_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("MATCHUP_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Environment variables: MATCHUP_ADDR, MATCHUP_POSTGRES_DSN, ...
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("MATCHUP_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "matchup_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if cfg.RecomputeIntervalMinutes <= 0 {
		return errors.New("recompute_interval_minutes must be positive")
	}
	if len(cfg.Leagues) == 0 {
		return errors.New("at least one league must be configured")
	}
	for league, lc := range cfg.Leagues {
		if lc.EloK <= 0 {
			return fmt.Errorf("league %s: elo_k must be positive", league)
		}
		if lc.SeasonRegression < 0 || lc.SeasonRegression > 1 {
			return fmt.Errorf("league %s: season_regression must be in [0,1]", league)
		}
		if lc.SeasonStartMonth < 1 || lc.SeasonStartMonth > 12 {
			return fmt.Errorf("league %s: season_start_month must be a calendar month", league)
		}
		if lc.PointsPerRating <= 0 {
			return fmt.Errorf("league %s: points_per_rating must be positive", league)
		}
	}
	for category, w := range cfg.Weights {
		if w < 0 {
			return fmt.Errorf("weight for %s must not be negative", category)
		}
	}
	if cfg.Convergence.MinActiveSignals < 1 {
		return errors.New("convergence.min_active_signals must be at least 1")
	}
	return nil
}
