package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"matchup-lab/internal/domain"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	if cfg.Addr != ":8080" {
		t.Errorf("Addr: got %s, want :8080", cfg.Addr)
	}
	if len(cfg.Leagues) != 4 {
		t.Fatalf("Expected 4 leagues, got %d", len(cfg.Leagues))
	}

	nfl, ok := cfg.Leagues[domain.LeagueNFL]
	if !ok {
		t.Fatal("NFL missing from defaults")
	}
	if nfl.EloK != 20 {
		t.Errorf("NFL EloK: got %v, want 20", nfl.EloK)
	}
	if nfl.SeasonStartMonth != 8 {
		t.Errorf("NFL SeasonStartMonth: got %d, want 8", nfl.SeasonStartMonth)
	}

	if err := validate(cfg); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLeagueConfig_Params(t *testing.T) {
	lc := LeagueConfig{EloK: 20, HomeAdvantage: 48, SeasonRegression: 0.33, SeasonStartMonth: 8, PointsPerRating: 25}
	p := lc.Params(domain.LeagueNFL)

	if p.League != domain.LeagueNFL {
		t.Errorf("League: got %s", p.League)
	}
	if p.SeasonStartMonth != time.August {
		t.Errorf("SeasonStartMonth: got %v, want August", p.SeasonStartMonth)
	}
	if p.PointsPerRating != 25 {
		t.Errorf("PointsPerRating: got %v, want 25", p.PointsPerRating)
	}
}

func TestConvergenceConfig_Params(t *testing.T) {
	cc := ConvergenceConfig{
		MinActiveSignals:    2,
		AllowAgreementBonus: true,
		AgreementBonus:      8,
		OpposerPenalty:      5,
		OpposerPenaltyCap:   10,
		MinPickScore:        65,
	}
	p := cc.Params()

	if p.AgreementBonus != 8 {
		t.Errorf("AgreementBonus: got %v, want 8", p.AgreementBonus)
	}
	if p.MinPickScore != 65 {
		t.Errorf("MinPickScore: got %d, want 65", p.MinPickScore)
	}
	// Untouched defaults survive the merge.
	if p.Center != 50 || p.Spread != 80 {
		t.Errorf("Center/Spread should keep defaults, got %v/%v", p.Center, p.Spread)
	}
	if len(p.TierCutoffs) == 0 {
		t.Error("TierCutoffs should keep defaults")
	}
}

func TestDefaultProviders_SpreadAndTotalRosters(t *testing.T) {
	providers := DefaultProviders(domain.LeagueNFL)

	byCategory := make(map[string]domain.ProviderConfig, len(providers))
	for _, p := range providers {
		byCategory[p.Category] = p
	}

	for _, want := range []string{"elo_edge", "power_edge", "ats_season", "ats_recent", "ats_h2h", "rest", "ou_season", "weather"} {
		if _, ok := byCategory[want]; !ok {
			t.Errorf("NFL roster missing %s", want)
		}
	}
	if _, ok := byCategory["pace"]; ok {
		t.Error("NFL roster should not carry pace")
	}

	nba := DefaultProviders(domain.LeagueNBA)
	nbaCategories := make(map[string]bool, len(nba))
	for _, p := range nba {
		nbaCategories[p.Category] = true
	}
	if !nbaCategories["pace"] {
		t.Error("NBA roster missing pace")
	}
	if nbaCategories["weather"] {
		t.Error("NBA roster should not carry weather")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MATCHUP_ADDR", ":9999")
	t.Setenv("MATCHUP_POSTGRES_DSN", "postgres://test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Addr != ":9999" {
		t.Errorf("Addr: got %s, want :9999", cfg.Addr)
	}
	if cfg.PostgresDSN != "postgres://test" {
		t.Errorf("PostgresDSN: got %s", cfg.PostgresDSN)
	}
	// Defaults not named by env survive.
	if len(cfg.Leagues) != 4 {
		t.Errorf("Leagues should keep defaults, got %d", len(cfg.Leagues))
	}
}

func TestLoad_FileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("addr: \":7070\"\nreport_dir: out\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("MATCHUP_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("Addr: got %s, want :7070", cfg.Addr)
	}
	if cfg.ReportDir != "out" {
		t.Errorf("ReportDir: got %s, want out", cfg.ReportDir)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("MATCHUP_CONFIG", path)
	t.Setenv("MATCHUP_ADDR", ":6060")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":6060" {
		t.Errorf("env should beat file: got %s, want :6060", cfg.Addr)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }},
		{"no leagues", func(c *Config) { c.Leagues = nil }},
		{"zero K", func(c *Config) {
			lc := c.Leagues[domain.LeagueNFL]
			lc.EloK = 0
			c.Leagues[domain.LeagueNFL] = lc
		}},
		{"regression above 1", func(c *Config) {
			lc := c.Leagues[domain.LeagueNFL]
			lc.SeasonRegression = 1.5
			c.Leagues[domain.LeagueNFL] = lc
		}},
		{"month 13", func(c *Config) {
			lc := c.Leagues[domain.LeagueNFL]
			lc.SeasonStartMonth = 13
			c.Leagues[domain.LeagueNFL] = lc
		}},
		{"negative weight", func(c *Config) { c.Weights["elo_edge"] = -1 }},
		{"zero min active", func(c *Config) { c.Convergence.MinActiveSignals = 0 }},
		{"bad interval", func(c *Config) { c.RecomputeIntervalMinutes = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := New()
			tc.mutate(cfg)
			if err := validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
