package domain

import "time"

// Game represents a completed game result.
// Corresponds to games table in PostgreSQL. Immutable once ingested.
type Game struct {
	GameID      string    // PRIMARY KEY, deterministic hash
	League      string    // league identifier (NFL, NCAAB, ...)
	GameDate    time.Time // calendar date of the game (UTC, midnight)
	Season      int       // season label as recorded by ingestion
	HomeTeam    string    // canonical home team identifier
	AwayTeam    string    // canonical away team identifier
	HomeScore   int
	AwayScore   int
	NeutralSite bool // no home-field advantage applies
	CreatedAt   int64 // record creation timestamp (ms)
}

// Margin returns the home-perspective scoring margin.
func (g *Game) Margin() int {
	return g.HomeScore - g.AwayScore
}

// HomeWon reports whether the home team won outright.
func (g *Game) HomeWon() bool {
	return g.HomeScore > g.AwayScore
}

// Tied reports whether the game ended level.
func (g *Game) Tied() bool {
	return g.HomeScore == g.AwayScore
}

// League identifiers with built-in parameter defaults.
const (
	LeagueNFL   = "NFL"
	LeagueNCAAF = "NCAAF"
	LeagueNBA   = "NBA"
	LeagueNCAAB = "NCAAB"
)
