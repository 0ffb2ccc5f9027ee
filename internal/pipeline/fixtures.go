package pipeline

import (
	"context"
	"time"

	"matchup-lab/internal/domain"
	"matchup-lab/internal/idhash"
	"matchup-lab/internal/storage"
)

// fixtureGame is one finished game with its closing line.
type fixtureGame struct {
	league     string
	date       time.Time
	home, away string
	hs, as     int
	spread     float64
	total      float64
}

func utcDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fixtureGames spans two seasons in two leagues so a full recompute
// exercises the season regression at each boundary.
var fixtureGames = []fixtureGame{
	// NFL 2023 season
	{domain.LeagueNFL, utcDay(2023, time.September, 10), "KC", "BAL", 24, 20, -3, 46.5},
	{domain.LeagueNFL, utcDay(2023, time.September, 10), "SF", "BUF", 30, 27, -2.5, 47},
	{domain.LeagueNFL, utcDay(2023, time.September, 17), "BAL", "SF", 28, 14, -1, 44.5},
	{domain.LeagueNFL, utcDay(2023, time.September, 17), "BUF", "KC", 17, 20, -2, 48},
	{domain.LeagueNFL, utcDay(2023, time.October, 1), "KC", "SF", 31, 17, -3.5, 47.5},
	{domain.LeagueNFL, utcDay(2023, time.October, 1), "BAL", "BUF", 27, 24, -3, 45},
	// January games still belong to the 2023 season
	{domain.LeagueNFL, utcDay(2024, time.January, 7), "KC", "BUF", 27, 24, -3, 44},
	{domain.LeagueNFL, utcDay(2024, time.January, 7), "SF", "BAL", 20, 33, 1.5, 46},
	// NFL 2024 season
	{domain.LeagueNFL, utcDay(2024, time.September, 8), "KC", "BAL", 27, 20, -3, 46.5},
	{domain.LeagueNFL, utcDay(2024, time.September, 8), "BUF", "SF", 31, 10, -1.5, 45.5},
	{domain.LeagueNFL, utcDay(2024, time.September, 15), "SF", "KC", 24, 28, 2.5, 47},
	{domain.LeagueNFL, utcDay(2024, time.September, 15), "BAL", "BUF", 35, 10, -3.5, 46},
	{domain.LeagueNFL, utcDay(2024, time.October, 6), "KC", "BUF", 26, 23, -2.5, 45.5},
	{domain.LeagueNFL, utcDay(2024, time.October, 6), "BAL", "SF", 30, 21, -4, 47.5},

	// NBA 2023 season
	{domain.LeagueNBA, utcDay(2023, time.October, 24), "BOS", "NYK", 108, 104, -6.5, 215.5},
	{domain.LeagueNBA, utcDay(2023, time.October, 24), "DEN", "LAL", 119, 107, -5.5, 224},
	{domain.LeagueNBA, utcDay(2024, time.January, 15), "NYK", "DEN", 112, 109, 2.5, 221},
	{domain.LeagueNBA, utcDay(2024, time.April, 10), "LAL", "BOS", 120, 126, 4, 230},
	// NBA 2024 season
	{domain.LeagueNBA, utcDay(2024, time.October, 22), "BOS", "NYK", 132, 109, -7, 220.5},
	{domain.LeagueNBA, utcDay(2024, time.October, 22), "LAL", "DEN", 110, 103, 3, 226.5},
}

// FixtureLeagues lists the leagues the fixture data covers.
func FixtureLeagues() []string {
	return []string{domain.LeagueNFL, domain.LeagueNBA}
}

// LoadFixtures populates stores with deterministic games and closing
// lines for a demonstration run.
func LoadFixtures(ctx context.Context, games storage.GameStore, lines storage.LineStore) error {
	for _, f := range fixtureGames {
		id := idhash.ComputeGameID(f.league, f.date, f.home, f.away)

		g := &domain.Game{
			GameID:    id,
			League:    f.league,
			GameDate:  f.date,
			HomeTeam:  f.home,
			AwayTeam:  f.away,
			HomeScore: f.hs,
			AwayScore: f.as,
		}
		if err := games.Insert(ctx, g); err != nil {
			return err
		}

		spread, total := f.spread, f.total
		line := &domain.MarketLine{
			GameID: id,
			League: f.league,
			Spread: &spread,
			Total:  &total,
			Source: "closing",
		}
		if err := lines.Insert(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// UpcomingSlate returns the matchups a demonstration run evaluates,
// posted lines included.
func UpcomingSlate() []*domain.MatchupContext {
	f := func(v float64) *float64 { return &v }
	return []*domain.MatchupContext{
		{
			League:     domain.LeagueNFL,
			GameDate:   utcDay(2024, time.October, 20),
			HomeTeam:   "KC",
			AwayTeam:   "SF",
			SpreadLine: f(-1),
			TotalLine:  f(47),
		},
		{
			League:     domain.LeagueNFL,
			GameDate:   utcDay(2024, time.October, 20),
			HomeTeam:   "BAL",
			AwayTeam:   "BUF",
			SpreadLine: f(-2.5),
			TotalLine:  f(45.5),
		},
		{
			League:     domain.LeagueNBA,
			GameDate:   utcDay(2024, time.November, 5),
			HomeTeam:   "BOS",
			AwayTeam:   "LAL",
			SpreadLine: f(-3),
			TotalLine:  f(225),
		},
	}
}
