// Package config defines process configuration: league rating parameters,
// the signal provider roster, convergence constants, and store DSNs.
// Defaults live in New(); Load() layers an optional YAML file and
// MATCHUP_-prefixed environment variables on top.
package config

import (
	"time"

	"matchup-lab/internal/convergence"
	"matchup-lab/internal/domain"
)

// Config contains process configuration.
type Config struct {
	// Addr configures the HTTP listen address for cmd/server, e.g. ":8080".
	Addr string `koanf:"addr"`

	// PostgresDSN is the authoritative store. Empty means memory stores.
	PostgresDSN string `koanf:"postgres_dsn"`

	// ClickhouseDSN is the rating history archive. Empty disables archiving.
	ClickhouseDSN string `koanf:"clickhouse_dsn"`

	// RecomputeIntervalMinutes is the server's rating recompute cadence.
	RecomputeIntervalMinutes int `koanf:"recompute_interval_minutes"`

	// ReportDir is where cmd/pipeline and cmd/report write pick sheets.
	ReportDir string `koanf:"report_dir"`

	// Leagues maps league code to its rating parameters.
	Leagues map[string]LeagueConfig `koanf:"leagues"`

	// Weights maps signal category to its convergence weight.
	// Categories absent here weigh 1.
	Weights map[string]float64 `koanf:"weights"`

	// Convergence holds the scorer's tunable constants.
	Convergence ConvergenceConfig `koanf:"convergence"`
}

// LeagueConfig holds per-league rating engine parameters.
type LeagueConfig struct {
	// EloK is the Elo K-factor.
	EloK float64 `koanf:"elo_k"`

	// HomeAdvantage is added to the home rating off neutral sites.
	HomeAdvantage float64 `koanf:"home_advantage"`

	// SeasonRegression pulls ratings toward the base at season boundaries.
	SeasonRegression float64 `koanf:"season_regression"`

	// SeasonStartMonth is the calendar month a season's games start counting
	// toward it; earlier months belong to the prior season.
	SeasonStartMonth int `koanf:"season_start_month"`

	// PointsPerRating converts rating difference to predicted margin.
	PointsPerRating float64 `koanf:"points_per_rating"`
}

// Params converts a LeagueConfig into the domain representation.
func (lc LeagueConfig) Params(league string) domain.LeagueParams {
	return domain.LeagueParams{
		League:           league,
		EloK:             lc.EloK,
		HomeAdvantage:    lc.HomeAdvantage,
		SeasonRegression: lc.SeasonRegression,
		SeasonStartMonth: time.Month(lc.SeasonStartMonth),
		PointsPerRating:  lc.PointsPerRating,
	}
}

// ConvergenceConfig carries the scorer constants that lack a documented
// derivation. They are deliberate configuration, not invariants.
type ConvergenceConfig struct {
	MinActiveSignals    int     `koanf:"min_active_signals"`
	AllowAgreementBonus bool    `koanf:"allow_agreement_bonus"`
	AgreementBonus      float64 `koanf:"agreement_bonus"`
	OpposerPenalty      float64 `koanf:"opposer_penalty"`
	OpposerPenaltyCap   float64 `koanf:"opposer_penalty_cap"`
	MinPickScore        int     `koanf:"min_pick_score"`
}

// Params merges the configured constants into the scorer defaults.
func (cc ConvergenceConfig) Params() convergence.Params {
	p := convergence.DefaultParams()
	p.AgreementBonus = cc.AgreementBonus
	p.OpposerPenalty = cc.OpposerPenalty
	p.OpposerPenaltyCap = cc.OpposerPenaltyCap
	p.MinPickScore = cc.MinPickScore
	return p
}

// New creates a Config with defaults for all supported leagues.
func New() *Config {
	return &Config{
		Addr:                     ":8080",
		RecomputeIntervalMinutes: 60,
		ReportDir:                "reports",
		Leagues: map[string]LeagueConfig{
			domain.LeagueNFL:   {EloK: 20, HomeAdvantage: 48, SeasonRegression: 0.33, SeasonStartMonth: 8, PointsPerRating: 25},
			domain.LeagueNCAAF: {EloK: 24, HomeAdvantage: 55, SeasonRegression: 0.40, SeasonStartMonth: 8, PointsPerRating: 28},
			domain.LeagueNBA:   {EloK: 16, HomeAdvantage: 70, SeasonRegression: 0.25, SeasonStartMonth: 10, PointsPerRating: 28},
			domain.LeagueNCAAB: {EloK: 22, HomeAdvantage: 80, SeasonRegression: 0.45, SeasonStartMonth: 11, PointsPerRating: 30},
		},
		Weights: map[string]float64{
			"elo_edge":   1.5,
			"power_edge": 1.25,
			"ats_season": 1.0,
			"ats_recent": 0.75,
			"ats_h2h":    0.5,
			"ou_season":  1.0,
			"rest":       0.75,
			"weather":    1.0,
			"pace":       0.75,
		},
		Convergence: ConvergenceConfig{
			MinActiveSignals:    2,
			AllowAgreementBonus: true,
			AgreementBonus:      6,
			OpposerPenalty:      4,
			OpposerPenaltyCap:   12,
			MinPickScore:        70,
		},
	}
}

// DefaultProviders returns the signal roster for a league. Provider variants
// are configuration records, not types; this is the stock roster the
// pipeline runs when no explicit roster is supplied.
func DefaultProviders(league string) []domain.ProviderConfig {
	spread := []domain.ProviderConfig{
		{
			Category:     "elo_edge",
			ProviderType: domain.ProviderTypeRatingEdge,
			Market:       domain.MarketSpread,
			RatingSystem: ptr(domain.RatingSystemElo),
			EdgeScale:    ptr(2.0),
			Confidence:   ptr(0.75),
		},
		{
			Category:     "power_edge",
			ProviderType: domain.ProviderTypeRatingEdge,
			Market:       domain.MarketSpread,
			RatingSystem: ptr(domain.RatingSystemPower),
			EdgeScale:    ptr(2.0),
			Confidence:   ptr(0.65),
		},
		{
			Category:     "ats_season",
			ProviderType: domain.ProviderTypeTrend,
			Market:       domain.MarketSpread,
			TrendKind:    ptr(domain.TrendATSSeason),
			MinSample:    ptr(8),
			Baseline:     ptr(0.5),
		},
		{
			Category:     "ats_recent",
			ProviderType: domain.ProviderTypeTrend,
			Market:       domain.MarketSpread,
			TrendKind:    ptr(domain.TrendATSRecent),
			MinSample:    ptr(5),
			Baseline:     ptr(0.5),
		},
		{
			Category:     "ats_h2h",
			ProviderType: domain.ProviderTypeTrend,
			Market:       domain.MarketSpread,
			TrendKind:    ptr(domain.TrendATSH2H),
			MinSample:    ptr(3),
			Baseline:     ptr(0.5),
		},
		{
			Category:     "rest",
			ProviderType: domain.ProviderTypeContext,
			Market:       domain.MarketSpread,
			ContextKind:  ptr(domain.ContextRest),
		},
	}

	total := []domain.ProviderConfig{
		{
			Category:     "ou_season",
			ProviderType: domain.ProviderTypeTrend,
			Market:       domain.MarketTotal,
			TrendKind:    ptr(domain.TrendOUSeason),
			MinSample:    ptr(8),
			Baseline:     ptr(0.5),
		},
	}

	switch league {
	case domain.LeagueNFL, domain.LeagueNCAAF:
		total = append(total, domain.ProviderConfig{
			Category:     "weather",
			ProviderType: domain.ProviderTypeContext,
			Market:       domain.MarketTotal,
			ContextKind:  ptr(domain.ContextWeather),
		})
	case domain.LeagueNBA, domain.LeagueNCAAB:
		total = append(total, domain.ProviderConfig{
			Category:     "pace",
			ProviderType: domain.ProviderTypeContext,
			Market:       domain.MarketTotal,
			ContextKind:  ptr(domain.ContextPace),
		})
	}

	return append(spread, total...)
}

func ptr[T any](v T) *T {
	return &v
}
