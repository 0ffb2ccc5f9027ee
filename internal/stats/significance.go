// Package stats provides the statistical significance analyzer that gates
// which empirical rates are trustworthy enough to become signals.
package stats

import (
	"fmt"
	"math"

	"matchup-lab/internal/domain"
)

// Classification thresholds. Tuned against historical ATS samples; see
// DESIGN.md for calibration status.
const (
	// MinTrials is the sample floor below which no test is run at all.
	MinTrials = 10

	// SignificanceLevel is the two-tailed p-value cutoff.
	SignificanceLevel = 0.05

	strongMinTrials    = 25
	strongMinEffect    = 0.12
	moderateMinEffect  = 0.06
	moderateMinTrials  = 40
	weakFloorTrials    = 30 // non-significant but large samples still rate WEAK
)

// Normal quantiles for the Wilson intervals.
const (
	z90 = 1.6448536269514722
	z95 = 1.9599639845400545
	z99 = 2.5758293035489004
)

// Analyze runs a one-proportion z-test of the observed success rate against
// a caller-supplied baseline and classifies the reliability of the result.
// Pure and total: defined for trials = 0, never returns an error, and
// degenerate inputs (zero variance baselines) resolve to NOISE.
func Analyze(successes, trials int, baseline float64) *domain.SignificanceResult {
	res := &domain.SignificanceResult{
		SampleSize:   trials,
		BaselineRate: baseline,
		Strength:     domain.StrengthNoise,
	}

	if trials > 0 {
		res.ObservedRate = float64(successes) / float64(trials)
	}
	res.Interval90 = wilson(successes, trials, z90)
	res.Interval95 = wilson(successes, trials, z95)
	res.Interval99 = wilson(successes, trials, z99)

	if trials < MinTrials {
		res.PValue = 1
		res.Label = fmt.Sprintf("insufficient sample (%d < %d)", trials, MinTrials)
		return res
	}

	// Degenerate baseline has zero variance; no test is possible.
	if baseline <= 0 || baseline >= 1 {
		res.PValue = 1
		res.Label = fmt.Sprintf("degenerate baseline %.3f", baseline)
		return res
	}

	se := math.Sqrt(baseline * (1 - baseline) / float64(trials))
	res.ZScore = (res.ObservedRate - baseline) / se
	res.PValue = twoTailedP(res.ZScore)
	res.IsSignificant = res.PValue < SignificanceLevel

	effect := math.Abs(res.ObservedRate - baseline)
	switch {
	case res.IsSignificant && trials >= strongMinTrials && effect >= strongMinEffect:
		res.Strength = domain.StrengthStrong
	case res.IsSignificant && (effect >= moderateMinEffect || trials >= moderateMinTrials):
		res.Strength = domain.StrengthModerate
	case res.IsSignificant:
		res.Strength = domain.StrengthWeak
	case trials >= weakFloorTrials:
		res.Strength = domain.StrengthWeak
	default:
		res.Strength = domain.StrengthNoise
	}

	res.Label = fmt.Sprintf("%.1f%% over %d vs %.1f%% baseline (p=%.4f, %s)",
		res.ObservedRate*100, trials, baseline*100, res.PValue, res.Strength)

	return res
}

// twoTailedP converts a z-statistic to a two-tailed p-value using the
// closed-form complementary error function.
func twoTailedP(z float64) float64 {
	return math.Erfc(math.Abs(z) / math.Sqrt2)
}

// wilson computes the Wilson score interval for the true success rate.
// Unlike the normal approximation it stays inside [0,1] at small samples
// and extreme proportions. trials = 0 yields the vacuous interval [0,1].
func wilson(successes, trials int, z float64) domain.ConfidenceInterval {
	if trials == 0 {
		return domain.ConfidenceInterval{Lower: 0, Upper: 1}
	}

	n := float64(trials)
	p := float64(successes) / n
	z2 := z * z

	denom := 1 + z2/n
	center := (p + z2/(2*n)) / denom
	half := z * math.Sqrt(p*(1-p)/n+z2/(4*n*n)) / denom

	lower := center - half
	upper := center + half
	if lower < 0 {
		lower = 0
	}
	if upper > 1 {
		upper = 1
	}
	return domain.ConfidenceInterval{Lower: lower, Upper: upper}
}
