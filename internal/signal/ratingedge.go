package signal

import (
	"fmt"
	"math"

	"matchup-lab/internal/domain"
)

// RatingEdgeProvider prices the spread market from one rating system and
// signals when the posted line disagrees with the model line. Two
// independently computable systems (internal Elo and an external power
// rating) share this implementation so they can be weighted or blended
// downstream without coupling.
type RatingEdgeProvider struct {
	category   string
	system     string // domain.RatingSystemElo | domain.RatingSystemPower
	edgeScale  float64 // magnitude units per point of residual
	confidence float64
	league     domain.LeagueParams
}

// NewRatingEdgeProvider creates a rating-edge provider for one league.
func NewRatingEdgeProvider(category, system string, edgeScale, confidence float64, league domain.LeagueParams) *RatingEdgeProvider {
	return &RatingEdgeProvider{
		category:   category,
		system:     system,
		edgeScale:  edgeScale,
		confidence: confidence,
		league:     league,
	}
}

// Category returns the provider identifier.
func (p *RatingEdgeProvider) Category() string {
	return p.category
}

var _ Provider = (*RatingEdgeProvider)(nil)

// Evaluate diffs the model's predicted line against the market line and
// maps the residual to direction and magnitude. The predicted line is
// (ratingDiff + HFA) / pointsPerRating under the market's home-perspective
// sign convention (negative = home favored). Residual of zero is a tie
// between sides and resolves to neutral.
func (p *RatingEdgeProvider) Evaluate(ctx *domain.MatchupContext) domain.SignalResult {
	home, away, ok := p.ratings(ctx)
	if !ok {
		return domain.NeutralSignal(p.category, domain.MarketSpread, "rating unavailable")
	}
	if ctx.SpreadLine == nil {
		return domain.NeutralSignal(p.category, domain.MarketSpread, "no spread line")
	}

	diff := home - away
	if !ctx.NeutralSite {
		diff += p.league.HomeAdvantage
	}
	predictedLine := -diff / p.league.PointsPerRating

	// Positive residual: the market asks less of the home team than the
	// model would, so the home side holds the value.
	residual := *ctx.SpreadLine - predictedLine
	if residual == 0 {
		return domain.NeutralSignal(p.category, domain.MarketSpread, "model agrees with market")
	}

	direction := domain.DirectionHome
	if residual < 0 {
		direction = domain.DirectionAway
	}

	magnitude := clampMagnitude(math.Abs(residual) * p.edgeScale)
	return domain.SignalResult{
		Category:   p.category,
		Market:     domain.MarketSpread,
		Direction:  direction,
		Magnitude:  magnitude,
		Confidence: clampConfidence(p.confidence),
		Strength:   domain.StrengthFromMagnitude(magnitude),
		Label: fmt.Sprintf("%s model %.1f vs market %.1f (edge %.1f)",
			p.system, predictedLine, *ctx.SpreadLine, math.Abs(residual)),
	}
}

// ratings resolves the configured rating system from the context.
func (p *RatingEdgeProvider) ratings(ctx *domain.MatchupContext) (home, away float64, ok bool) {
	switch p.system {
	case domain.RatingSystemElo:
		if ctx.HomeElo == nil || ctx.AwayElo == nil {
			return 0, 0, false
		}
		return *ctx.HomeElo, *ctx.AwayElo, true
	case domain.RatingSystemPower:
		if ctx.HomePower == nil || ctx.AwayPower == nil {
			return 0, 0, false
		}
		return *ctx.HomePower, *ctx.AwayPower, true
	default:
		return 0, 0, false
	}
}
