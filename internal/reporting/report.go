package reporting

import "time"

// Report is the rendered pick sheet for one or more leagues.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	LeagueCount int
	PickCount   int

	// Data Summary
	DataSummary DataSummary

	// Slate rows (sorted by league, game_date, pick_id)
	Picks []PickRow

	// Tier distribution across the whole slate
	TierDistribution []TierCountRow

	// Current ratings per league (sorted by league, rating descending)
	Ratings []RatingRow
}

// DataSummary describes the stored data behind the report.
type DataSummary struct {
	TotalGames     int
	TotalPicks     int
	DateRangeStart int64 // Unix ms, earliest pick's game date
	DateRangeEnd   int64 // Unix ms, latest pick's game date
}

// PickRow is one row of the slate table.
type PickRow struct {
	League      string
	GameDate    time.Time
	HomeTeam    string
	AwayTeam    string
	Market      string
	Direction   string
	Score       int
	Tier        int
	ActiveCount int
}

// TierCountRow counts picks at one confidence tier.
type TierCountRow struct {
	Tier  int
	Count int
}

// RatingRow is one team's current rating.
type RatingRow struct {
	League string
	Team   string
	Rating float64
}
