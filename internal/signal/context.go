package signal

import (
	"fmt"
	"math"

	"matchup-lab/internal/domain"
)

// ContextProvider maps a measured game condition to a fixed signal through
// a rule table. The tables are deliberate, documented heuristics rather
// than statistically derived curves, so the fixed confidences stay modest to
// avoid false precision.
type ContextProvider struct {
	category string
	kind     string // domain.ContextRest | ContextWeather | ContextPace
}

// NewContextProvider creates a rule-table provider.
func NewContextProvider(category, kind string) *ContextProvider {
	return &ContextProvider{category: category, kind: kind}
}

// Category returns the provider identifier.
func (p *ContextProvider) Category() string {
	return p.category
}

var _ Provider = (*ContextProvider)(nil)

// Evaluate dispatches on the configured condition.
func (p *ContextProvider) Evaluate(ctx *domain.MatchupContext) domain.SignalResult {
	switch p.kind {
	case domain.ContextRest:
		return p.restEdge(ctx)
	case domain.ContextWeather:
		return p.weather(ctx)
	case domain.ContextPace:
		return p.paceMismatch(ctx)
	default:
		return domain.NeutralSignal(p.category, domain.MarketSpread, "unknown context variant")
	}
}

// restRow maps a rest-day differential floor to a fixed signal.
type restRow struct {
	minDiff    int
	magnitude  float64
	confidence float64
}

// Rows are checked top-down; larger differentials take precedence.
var restTable = []restRow{
	{minDiff: 4, magnitude: 4, confidence: 0.65},
	{minDiff: 2, magnitude: 2.5, confidence: 0.55},
	{minDiff: 1, magnitude: 1, confidence: 0.5},
}

// restEdge favors the better-rested side. Equal rest is a tie and resolves
// to neutral.
func (p *ContextProvider) restEdge(ctx *domain.MatchupContext) domain.SignalResult {
	if ctx.HomeRestDays == nil || ctx.AwayRestDays == nil {
		return domain.NeutralSignal(p.category, domain.MarketSpread, "rest days unavailable")
	}

	diff := *ctx.HomeRestDays - *ctx.AwayRestDays
	if diff == 0 {
		return domain.NeutralSignal(p.category, domain.MarketSpread, "equal rest")
	}

	direction := domain.DirectionHome
	if diff < 0 {
		direction = domain.DirectionAway
	}

	abs := int(math.Abs(float64(diff)))
	for _, row := range restTable {
		if abs >= row.minDiff {
			return domain.SignalResult{
				Category:   p.category,
				Market:     domain.MarketSpread,
				Direction:  direction,
				Magnitude:  clampMagnitude(row.magnitude),
				Confidence: clampConfidence(row.confidence),
				Strength:   domain.StrengthFromMagnitude(row.magnitude),
				Label:      fmt.Sprintf("rest advantage %+d days", diff),
			}
		}
	}
	return domain.NeutralSignal(p.category, domain.MarketSpread, "rest difference below table floor")
}

// weatherRow maps a wind floor or temperature ceiling to an under lean.
type weatherRow struct {
	minWind    float64 // 0 disables the wind check for this row
	maxTemp    float64 // math.Inf(1) disables the temperature check
	magnitude  float64
	confidence float64
}

var weatherTable = []weatherRow{
	{minWind: 20, maxTemp: math.Inf(1), magnitude: 6, confidence: 0.7},
	{minWind: 15, maxTemp: math.Inf(1), magnitude: 4, confidence: 0.6},
	{minWind: 10, maxTemp: math.Inf(1), magnitude: 2, confidence: 0.5},
	{minWind: 0, maxTemp: 10, magnitude: 3, confidence: 0.55},
}

// weather leans under in heavy wind or extreme cold. The strongest
// matching row wins; benign conditions are neutral rather than an over
// lean, since good weather carries no information the total lacks.
func (p *ContextProvider) weather(ctx *domain.MatchupContext) domain.SignalResult {
	if ctx.WindMPH == nil && ctx.TemperatureF == nil {
		return domain.NeutralSignal(p.category, domain.MarketTotal, "weather unavailable")
	}

	var best *weatherRow
	for i, row := range weatherTable {
		windHit := row.minWind > 0 && ctx.WindMPH != nil && *ctx.WindMPH >= row.minWind
		tempHit := !math.IsInf(row.maxTemp, 1) && ctx.TemperatureF != nil && *ctx.TemperatureF <= row.maxTemp
		if !windHit && !tempHit {
			continue
		}
		if best == nil || row.magnitude > best.magnitude {
			best = &weatherTable[i]
		}
	}
	if best == nil {
		return domain.NeutralSignal(p.category, domain.MarketTotal, "benign conditions")
	}

	return domain.SignalResult{
		Category:   p.category,
		Market:     domain.MarketTotal,
		Direction:  domain.DirectionUnder,
		Magnitude:  clampMagnitude(best.magnitude),
		Confidence: clampConfidence(best.confidence),
		Strength:   domain.StrengthFromMagnitude(best.magnitude),
		Label:      weatherLabel(ctx),
	}
}

func weatherLabel(ctx *domain.MatchupContext) string {
	wind, temp := "-", "-"
	if ctx.WindMPH != nil {
		wind = fmt.Sprintf("%.0fmph", *ctx.WindMPH)
	}
	if ctx.TemperatureF != nil {
		temp = fmt.Sprintf("%.0fF", *ctx.TemperatureF)
	}
	return fmt.Sprintf("wind %s, temp %s", wind, temp)
}

// paceRow maps a combined-pace deviation to a total lean.
type paceRow struct {
	minAvgPace float64 // combined average at or above leans over
	maxAvgPace float64 // combined average at or below leans under
	magnitude  float64
	confidence float64
}

var paceTable = []paceRow{
	{minAvgPace: 104, maxAvgPace: 0, magnitude: 4, confidence: 0.6},
	{minAvgPace: 101, maxAvgPace: 0, magnitude: 2, confidence: 0.5},
	{minAvgPace: 0, maxAvgPace: 96, magnitude: 4, confidence: 0.6},
	{minAvgPace: 0, maxAvgPace: 99, magnitude: 2, confidence: 0.5},
}

// paceMismatch leans over when both teams play fast and under when both
// play slow, keyed on the combined average pace.
func (p *ContextProvider) paceMismatch(ctx *domain.MatchupContext) domain.SignalResult {
	if ctx.HomePace == nil || ctx.AwayPace == nil {
		return domain.NeutralSignal(p.category, domain.MarketTotal, "pace unavailable")
	}

	avg := (*ctx.HomePace + *ctx.AwayPace) / 2
	for _, row := range paceTable {
		if row.minAvgPace > 0 && avg >= row.minAvgPace {
			return p.paceSignal(domain.DirectionOver, row, avg)
		}
		if row.maxAvgPace > 0 && avg <= row.maxAvgPace {
			return p.paceSignal(domain.DirectionUnder, row, avg)
		}
	}
	return domain.NeutralSignal(p.category, domain.MarketTotal, "average pace")
}

func (p *ContextProvider) paceSignal(direction domain.Direction, row paceRow, avg float64) domain.SignalResult {
	return domain.SignalResult{
		Category:   p.category,
		Market:     domain.MarketTotal,
		Direction:  direction,
		Magnitude:  clampMagnitude(row.magnitude),
		Confidence: clampConfidence(row.confidence),
		Strength:   domain.StrengthFromMagnitude(row.magnitude),
		Label:      fmt.Sprintf("combined pace %.1f", avg),
	}
}
