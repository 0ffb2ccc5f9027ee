package domain

import "time"

// MatchupContext carries every already-resolved input a signal provider
// may consume for one matchup. Orchestration builds it from the stores
// and external collaborators; providers never reach into ambient state.
// All optional inputs are pointers: nil means "not available", which
// providers must degrade from rather than error on.
type MatchupContext struct {
	League      string
	GameDate    time.Time
	HomeTeam    string
	AwayTeam    string
	NeutralSite bool

	// Market lines. Spread is home-perspective (negative = home favored).
	SpreadLine *float64
	TotalLine  *float64

	// Rating inputs from two independent systems.
	HomeElo   *float64
	AwayElo   *float64
	HomePower *float64 // externally supplied power rating
	AwayPower *float64

	// Against-the-number trend records, folded from stored results.
	HomeATSSeason *TrendRecord
	AwayATSSeason *TrendRecord
	HomeATSRecent *TrendRecord // trailing window
	AwayATSRecent *TrendRecord
	HeadToHeadATS *TrendRecord // home-perspective vs this opponent

	// Over/under records for the total market.
	HomeOverUnder *TrendRecord // wins = overs
	AwayOverUnder *TrendRecord

	// Situational measurements for rule-table providers.
	HomeRestDays *int
	AwayRestDays *int
	WindMPH      *float64
	TemperatureF *float64
	HomePace     *float64 // possessions or plays per game
	AwayPace     *float64
}
