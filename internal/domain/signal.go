package domain

// Direction is the side a signal or pick leans toward.
type Direction string

const (
	DirectionHome    Direction = "HOME"
	DirectionAway    Direction = "AWAY"
	DirectionOver    Direction = "OVER"
	DirectionUnder   Direction = "UNDER"
	DirectionNeutral Direction = "NEUTRAL"
)

// Strength classifies how reliable a signal's supporting evidence is.
// Derived from magnitude or a significance test, never set independently.
type Strength string

const (
	StrengthStrong   Strength = "STRONG"
	StrengthModerate Strength = "MODERATE"
	StrengthWeak     Strength = "WEAK"
	StrengthNoise    Strength = "NOISE"
)

// SignalResult is the normalized output every provider emits.
// Invariants: Magnitude in [0,10], Confidence in [0,1]; a NOISE signal
// contributes nothing to convergence.
type SignalResult struct {
	Category   string // provider category identifier
	Market     Market // market the signal addresses
	Direction  Direction
	Magnitude  float64 // size of the detected edge, clamped [0,10]
	Confidence float64 // sample/statistical certainty, clamped [0,1]
	Strength   Strength
	Label      string // human-readable summary
}

// Inert reports whether the signal carries no usable lean.
func (s SignalResult) Inert() bool {
	return s.Direction == DirectionNeutral || s.Magnitude <= 0 || s.Strength == StrengthNoise
}

// NeutralSignal is the defined result for missing or insufficient inputs.
// Providers return this instead of erroring.
func NeutralSignal(category string, market Market, label string) SignalResult {
	return SignalResult{
		Category:   category,
		Market:     market,
		Direction:  DirectionNeutral,
		Magnitude:  0,
		Confidence: 0,
		Strength:   StrengthNoise,
		Label:      label,
	}
}

// StrengthFromMagnitude maps an edge magnitude to a strength tier.
// Shared by providers so strength is always derived, never hand-set.
func StrengthFromMagnitude(magnitude float64) Strength {
	switch {
	case magnitude >= 7:
		return StrengthStrong
	case magnitude >= 4:
		return StrengthModerate
	case magnitude > 0:
		return StrengthWeak
	default:
		return StrengthNoise
	}
}
