package domain

// ConfidenceInterval is a closed-form Wilson score interval for a true rate.
type ConfidenceInterval struct {
	Lower float64
	Upper float64
}

// SignificanceResult is the full output of the significance analyzer.
// Pure function of (successes, trials, baseline); no persistence lifecycle.
type SignificanceResult struct {
	SampleSize    int
	ObservedRate  float64
	BaselineRate  float64
	ZScore        float64
	PValue        float64
	IsSignificant bool // p < 0.05
	Interval90    ConfidenceInterval
	Interval95    ConfidenceInterval
	Interval99    ConfidenceInterval
	Strength      Strength
	Label         string
}
