package signal

import (
	"math"
	"testing"
	"time"

	"matchup-lab/internal/domain"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func testLeague() domain.LeagueParams {
	return domain.LeagueParams{
		League:           domain.LeagueNFL,
		EloK:             20,
		HomeAdvantage:    50,
		SeasonRegression: 0.33,
		SeasonStartMonth: time.August,
		PointsPerRating:  25,
	}
}

func baseContext() *domain.MatchupContext {
	return &domain.MatchupContext{
		League:   domain.LeagueNFL,
		HomeTeam: "DEN",
		AwayTeam: "LV",
	}
}

func TestRatingEdge_MissingRatingIsExactNeutral(t *testing.T) {
	p := NewRatingEdgeProvider("elo_edge", domain.RatingSystemElo, 2, 0.85, testLeague())

	ctx := baseContext()
	ctx.SpreadLine = fptr(-3)
	ctx.HomeElo = fptr(1550)
	// AwayElo deliberately missing.

	got := p.Evaluate(ctx)
	if got.Direction != domain.DirectionNeutral || got.Magnitude != 0 ||
		got.Confidence != 0 || got.Strength != domain.StrengthNoise {
		t.Errorf("missing rating must yield the exact inert signal, got %+v", got)
	}
}

func TestRatingEdge_MissingLineIsNeutral(t *testing.T) {
	p := NewRatingEdgeProvider("elo_edge", domain.RatingSystemElo, 2, 0.85, testLeague())

	ctx := baseContext()
	ctx.HomeElo = fptr(1550)
	ctx.AwayElo = fptr(1450)

	if got := p.Evaluate(ctx); !got.Inert() {
		t.Errorf("missing spread line should be inert, got %+v", got)
	}
}

func TestRatingEdge_HomeValue(t *testing.T) {
	// Elo diff 100 + HFA 50 = 150 rating points = 6 scoreboard points at
	// 25 points-per-rating, so the model line is home -6. A market line of
	// home -3 underprices the home side.
	p := NewRatingEdgeProvider("elo_edge", domain.RatingSystemElo, 2, 0.85, testLeague())

	ctx := baseContext()
	ctx.HomeElo = fptr(1550)
	ctx.AwayElo = fptr(1450)
	ctx.SpreadLine = fptr(-3)

	got := p.Evaluate(ctx)
	if got.Direction != domain.DirectionHome {
		t.Errorf("direction: got %s, want HOME", got.Direction)
	}
	// Residual 3 points at scale 2 = magnitude 6.
	if math.Abs(got.Magnitude-6) > 1e-9 {
		t.Errorf("magnitude: got %f, want 6", got.Magnitude)
	}
	if got.Confidence != 0.85 {
		t.Errorf("confidence: got %f, want 0.85", got.Confidence)
	}
	if got.Strength != domain.StrengthModerate {
		t.Errorf("strength: got %s, want MODERATE", got.Strength)
	}
}

func TestRatingEdge_AwayValueAndNeutralSite(t *testing.T) {
	p := NewRatingEdgeProvider("elo_edge", domain.RatingSystemElo, 2, 0.85, testLeague())

	// Equal ratings on a neutral site: the model line is pick'em. A market
	// line of home -4 overprices home, so away holds the value.
	ctx := baseContext()
	ctx.NeutralSite = true
	ctx.HomeElo = fptr(1500)
	ctx.AwayElo = fptr(1500)
	ctx.SpreadLine = fptr(-4)

	got := p.Evaluate(ctx)
	if got.Direction != domain.DirectionAway {
		t.Errorf("direction: got %s, want AWAY", got.Direction)
	}
	if math.Abs(got.Magnitude-8) > 1e-9 {
		t.Errorf("magnitude: got %f, want 8", got.Magnitude)
	}
}

func TestRatingEdge_ModelAgreesWithMarket(t *testing.T) {
	p := NewRatingEdgeProvider("elo_edge", domain.RatingSystemElo, 2, 0.85, testLeague())

	// Model line exactly -6; market -6: tie resolves to neutral.
	ctx := baseContext()
	ctx.HomeElo = fptr(1550)
	ctx.AwayElo = fptr(1450)
	ctx.SpreadLine = fptr(-6)

	if got := p.Evaluate(ctx); !got.Inert() {
		t.Errorf("zero residual should be inert, got %+v", got)
	}
}

func TestRatingEdge_MagnitudeClamped(t *testing.T) {
	p := NewRatingEdgeProvider("elo_edge", domain.RatingSystemElo, 2, 0.85, testLeague())

	ctx := baseContext()
	ctx.NeutralSite = true
	ctx.HomeElo = fptr(1900)
	ctx.AwayElo = fptr(1100)
	ctx.SpreadLine = fptr(3) // market thinks home is an underdog

	got := p.Evaluate(ctx)
	if got.Magnitude != 10 {
		t.Errorf("huge residual should clamp to 10, got %f", got.Magnitude)
	}
}

func TestRatingEdge_PowerSystemIsIndependent(t *testing.T) {
	p := NewRatingEdgeProvider("power_edge", domain.RatingSystemPower, 2, 0.8, testLeague())

	// Elo present but the power system must not read it.
	ctx := baseContext()
	ctx.HomeElo = fptr(1550)
	ctx.AwayElo = fptr(1450)
	ctx.SpreadLine = fptr(-3)

	if got := p.Evaluate(ctx); !got.Inert() {
		t.Errorf("power provider without power ratings should be inert, got %+v", got)
	}

	ctx.HomePower = fptr(1600)
	ctx.AwayPower = fptr(1500)
	got := p.Evaluate(ctx)
	if got.Direction != domain.DirectionHome {
		t.Errorf("power edge direction: got %s, want HOME", got.Direction)
	}
}
