package domain

// Provider type identifiers.
const (
	ProviderTypeRatingEdge = "RATING_EDGE"
	ProviderTypeTrend      = "TREND"
	ProviderTypeContext    = "CONTEXT"
)

// Rating systems usable by RATING_EDGE providers.
const (
	RatingSystemElo   = "ELO"
	RatingSystemPower = "POWER"
)

// Trend variants usable by TREND providers.
const (
	TrendATSSeason = "ATS_SEASON"
	TrendATSRecent = "ATS_RECENT"
	TrendATSH2H    = "ATS_H2H"
	TrendOUSeason  = "OU_SEASON"
)

// Context variants usable by CONTEXT providers.
const (
	ContextRest    = "REST"
	ContextWeather = "WEATHER"
	ContextPace    = "PACE"
)

// ProviderConfig defines one signal provider as data.
// New provider variants are new config records, not new code paths.
// Optional fields are required per provider type and validated by the
// signal factory.
type ProviderConfig struct {
	Category     string // unique identifier, used as the signal category
	ProviderType string // RATING_EDGE | TREND | CONTEXT
	Market       Market

	// RATING_EDGE parameters
	RatingSystem *string  // ELO | POWER
	EdgeScale    *float64 // magnitude units per point of line residual
	Confidence   *float64 // fixed confidence for rule-derived providers

	// TREND parameters
	TrendKind *string  // ATS_SEASON | ATS_RECENT | ATS_H2H | OU_SEASON
	MinSample *int     // floor below which the provider stays neutral
	Baseline  *float64 // rate the significance test compares against

	// CONTEXT parameters
	ContextKind *string // REST | WEATHER | PACE
}
