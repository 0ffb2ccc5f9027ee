// Package convergence reduces a set of weighted signals for one
// matchup/market into a single 0-100 score, direction, and confidence
// tier. It depends only on the signal contract, never on any provider's
// internals.
package convergence

import (
	"math"

	"matchup-lab/internal/domain"
)

// Params are the hand-tuned scoring constants. They are configuration
// defaults, not invariants: every value can be overridden per deployment.
type Params struct {
	// Center and Spread map the weighted agreement ratio onto the score:
	// score = Center + ratio*Spread.
	Center float64
	Spread float64

	// AgreementBonus is added when at least BonusMinCount active signals
	// agree with the leading direction and their share of active signals
	// reaches BonusMinRatio.
	AgreementBonus float64
	BonusMinRatio  float64
	BonusMinCount  int

	// OpposerPenalty is subtracted per STRONG/MODERATE signal pointing
	// away from the leading direction, capped at OpposerPenaltyCap. One
	// loud contrarian must visibly dent the score without flipping it.
	OpposerPenalty    float64
	OpposerPenaltyCap float64

	// MinPickScore is the floor below which no pick is issued.
	MinPickScore int

	// TierCutoffs map scores to discrete confidence tiers, checked in
	// descending cutoff order.
	TierCutoffs []TierCutoff
}

// TierCutoff assigns a tier to every score at or above its cutoff.
type TierCutoff struct {
	MinScore int
	Tier     int
}

// DefaultParams returns the tuned defaults. Flagged for empirical
// recalibration in DESIGN.md.
func DefaultParams() Params {
	return Params{
		Center:            50,
		Spread:            80,
		AgreementBonus:    6,
		BonusMinRatio:     0.75,
		BonusMinCount:     3,
		OpposerPenalty:    4,
		OpposerPenaltyCap: 12,
		MinPickScore:      70,
		TierCutoffs: []TierCutoff{
			{MinScore: 85, Tier: 5},
			{MinScore: 70, Tier: 4},
			{MinScore: 60, Tier: 3},
			{MinScore: 55, Tier: 2},
			{MinScore: 50, Tier: 1},
		},
	}
}

// Result is a scored recommendation. A nil Result means "no pick".
type Result struct {
	Direction   domain.Direction
	Score       int // integer in [0,100]
	Tier        int
	ActiveCount int
}

// directionOrder is the canonical tie-break: when two directions
// accumulate identical weight the earlier entry wins, so results are
// reproducible across runs.
var directionOrder = []domain.Direction{
	domain.DirectionHome,
	domain.DirectionAway,
	domain.DirectionOver,
	domain.DirectionUnder,
}

// Score aggregates signals into one recommendation. Signals missing from
// the weight map carry weight 1. Returns nil (no pick) when fewer than
// minActive signals are active, when no direction accumulates weight, or
// when the final score falls below Params.MinPickScore. Never errors:
// zero signals and zero total weight are both defined as no pick.
func Score(signals []domain.SignalResult, weights map[string]float64, minActive int, allowBonus bool, params Params) *Result {
	active := 0
	for _, s := range signals {
		if !s.Inert() {
			active++
		}
	}
	if active < minActive || active == 0 {
		return nil
	}

	// Accumulate effective weight per direction; every signal considered
	// contributes its category weight to the normalization denominator
	// whether or not it is active.
	byDirection := make(map[domain.Direction]float64)
	totalPossible := 0.0
	for _, s := range signals {
		w := categoryWeight(weights, s.Category)
		totalPossible += w * 10
		if s.Inert() {
			continue
		}
		byDirection[s.Direction] += w * s.Magnitude * s.Confidence
	}
	if totalPossible <= 0 {
		return nil
	}

	leading, leadingWeight := leadingDirection(byDirection)
	if leading == domain.DirectionNeutral {
		return nil
	}

	runnerUp := 0.0
	for dir, w := range byDirection {
		if dir != leading {
			runnerUp += w
		}
	}

	ratio := (leadingWeight - runnerUp) / totalPossible
	score := params.Center + ratio*params.Spread

	agreeing, opposingLoud := 0, 0
	for _, s := range signals {
		if s.Inert() {
			continue
		}
		if s.Direction == leading {
			agreeing++
		} else if s.Strength == domain.StrengthStrong || s.Strength == domain.StrengthModerate {
			opposingLoud++
		}
	}

	if allowBonus && agreeing >= params.BonusMinCount &&
		float64(agreeing)/float64(active) >= params.BonusMinRatio {
		score += params.AgreementBonus
	}

	penalty := float64(opposingLoud) * params.OpposerPenalty
	if penalty > params.OpposerPenaltyCap {
		penalty = params.OpposerPenaltyCap
	}
	score -= penalty

	final := int(math.Round(clamp(score, 0, 100)))
	if final < params.MinPickScore {
		return nil
	}

	return &Result{
		Direction:   leading,
		Score:       final,
		Tier:        tierFor(final, params.TierCutoffs),
		ActiveCount: active,
	}
}

// leadingDirection picks the direction with the largest accumulated
// weight, breaking ties by canonical order.
func leadingDirection(byDirection map[domain.Direction]float64) (domain.Direction, float64) {
	leading := domain.DirectionNeutral
	best := 0.0
	for _, dir := range directionOrder {
		if w, ok := byDirection[dir]; ok && w > best {
			leading = dir
			best = w
		}
	}
	return leading, best
}

func tierFor(score int, cutoffs []TierCutoff) int {
	for _, c := range cutoffs {
		if score >= c.MinScore {
			return c.Tier
		}
	}
	return 0
}

func categoryWeight(weights map[string]float64, category string) float64 {
	if w, ok := weights[category]; ok {
		return w
	}
	return 1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
