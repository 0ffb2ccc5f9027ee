package signal

import (
	"fmt"
	"math"

	"matchup-lab/internal/domain"
	"matchup-lab/internal/stats"
)

// effectToMagnitude converts a rate deviation from baseline into magnitude
// units: a 0.25 effect size saturates the scale.
const effectToMagnitude = 40.0

// TrendProvider derives a directional lean from historical
// against-the-number or over/under records, gated by the significance
// analyzer so thin or noisy samples stay silent. One parameterized type
// covers every trend variant; variants are configuration, not code.
type TrendProvider struct {
	category  string
	kind      string // domain.TrendATSSeason | ATSRecent | ATSH2H | OUSeason
	minSample int
	baseline  float64
}

// NewTrendProvider creates a trend provider from its parameters.
func NewTrendProvider(category, kind string, minSample int, baseline float64) *TrendProvider {
	return &TrendProvider{
		category:  category,
		kind:      kind,
		minSample: minSample,
		baseline:  baseline,
	}
}

// Category returns the provider identifier.
func (p *TrendProvider) Category() string {
	return p.category
}

var _ Provider = (*TrendProvider)(nil)

// Evaluate dispatches on the configured trend variant. Missing records and
// samples under the provider floor yield neutral; samples the analyzer
// classifies as NOISE are inert by contract, so they also yield neutral.
func (p *TrendProvider) Evaluate(ctx *domain.MatchupContext) domain.SignalResult {
	switch p.kind {
	case domain.TrendATSSeason:
		return p.twoSided(ctx.HomeATSSeason, ctx.AwayATSSeason)
	case domain.TrendATSRecent:
		return p.twoSided(ctx.HomeATSRecent, ctx.AwayATSRecent)
	case domain.TrendATSH2H:
		return p.oneSided(ctx.HeadToHeadATS, domain.MarketSpread, domain.DirectionHome, domain.DirectionAway)
	case domain.TrendOUSeason:
		return p.overUnder(ctx.HomeOverUnder, ctx.AwayOverUnder)
	default:
		return domain.NeutralSignal(p.category, domain.MarketSpread, "unknown trend variant")
	}
}

// twoSided nets each team's cover tendency against the other: two teams
// that both cover at a high clip cancel out. Only sides whose samples
// clear both the provider floor and the significance gate contribute.
func (p *TrendProvider) twoSided(home, away *domain.TrendRecord) domain.SignalResult {
	homeEdge, homeRes := p.sideEdge(home)
	awayEdge, awayRes := p.sideEdge(away)

	if homeRes == nil && awayRes == nil {
		return domain.NeutralSignal(p.category, domain.MarketSpread, "insufficient trend sample")
	}

	net := homeEdge - awayEdge
	if net == 0 {
		return domain.NeutralSignal(p.category, domain.MarketSpread, "trend edges offset")
	}

	direction := domain.DirectionHome
	dominant := homeRes
	if net < 0 {
		direction = domain.DirectionAway
		if awayRes != nil {
			dominant = awayRes
		}
	} else if dominant == nil {
		dominant = awayRes
	}

	magnitude := clampMagnitude(math.Abs(net) * effectToMagnitude)
	return domain.SignalResult{
		Category:   p.category,
		Market:     domain.MarketSpread,
		Direction:  direction,
		Magnitude:  magnitude,
		Confidence: clampConfidence(1 - dominant.PValue),
		Strength:   dominant.Strength,
		Label: fmt.Sprintf("net cover edge %+.3f (home %+.3f, away %+.3f)",
			net, homeEdge, awayEdge),
	}
}

// oneSided evaluates a single record (head-to-head) from the home
// perspective.
func (p *TrendProvider) oneSided(rec *domain.TrendRecord, market domain.Market, above, below domain.Direction) domain.SignalResult {
	res := p.analyze(rec)
	if res == nil {
		return domain.NeutralSignal(p.category, market, "insufficient trend sample")
	}

	effect := res.ObservedRate - res.BaselineRate
	if effect == 0 {
		return domain.NeutralSignal(p.category, market, "trend at baseline")
	}

	direction := above
	if effect < 0 {
		direction = below
	}

	magnitude := clampMagnitude(math.Abs(effect) * effectToMagnitude)
	return domain.SignalResult{
		Category:   p.category,
		Market:     market,
		Direction:  direction,
		Magnitude:  magnitude,
		Confidence: clampConfidence(1 - res.PValue),
		Strength:   res.Strength,
		Label:      res.Label,
	}
}

// overUnder pools both teams' over records into one sample for the total
// market.
func (p *TrendProvider) overUnder(home, away *domain.TrendRecord) domain.SignalResult {
	if home == nil && away == nil {
		return domain.NeutralSignal(p.category, domain.MarketTotal, "no over/under history")
	}

	combined := domain.TrendRecord{}
	if home != nil {
		combined.Wins += home.Wins
		combined.Losses += home.Losses
		combined.Pushes += home.Pushes
	}
	if away != nil {
		combined.Wins += away.Wins
		combined.Losses += away.Losses
		combined.Pushes += away.Pushes
	}

	return p.oneSided(&combined, domain.MarketTotal, domain.DirectionOver, domain.DirectionUnder)
}

// sideEdge returns a team's signed deviation from baseline, zero unless
// the sample clears both gates.
func (p *TrendProvider) sideEdge(rec *domain.TrendRecord) (float64, *domain.SignificanceResult) {
	res := p.analyze(rec)
	if res == nil {
		return 0, nil
	}
	return res.ObservedRate - res.BaselineRate, res
}

// analyze runs the significance gate. Returns nil when the record is
// missing, under the provider floor, or classified NOISE.
func (p *TrendProvider) analyze(rec *domain.TrendRecord) *domain.SignificanceResult {
	if rec == nil || rec.Trials() < p.minSample {
		return nil
	}
	res := stats.Analyze(rec.Wins, rec.Trials(), p.baseline)
	if res.Strength == domain.StrengthNoise {
		return nil
	}
	return res
}
