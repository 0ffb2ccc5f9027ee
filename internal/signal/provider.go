// Package signal implements the provider families that convert ratings,
// against-the-number trends, and situational inputs into normalized
// signals. All providers obey one contract so the convergence scorer can
// treat them uniformly: missing inputs degrade to the inert neutral
// signal, magnitude is clamped to [0,10], confidence to [0,1], and
// strength is always derived, never hand-set.
package signal

import "matchup-lab/internal/domain"

// Provider evaluates one matchup context into a normalized signal.
// Implementations are pure functions of the context: no I/O, no ambient
// state, and by contract they never fail: insufficient evidence is a
// neutral result, not an error.
type Provider interface {
	// Evaluate produces the provider's signal for the matchup.
	Evaluate(ctx *domain.MatchupContext) domain.SignalResult

	// Category returns the provider's category identifier (includes its
	// configured variant).
	Category() string
}

// clampMagnitude bounds an edge magnitude to [0,10] regardless of how the
// intermediate ratio was computed.
func clampMagnitude(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// clampConfidence bounds a confidence value to [0,1].
func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
