package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"matchup-lab/internal/domain"
	"matchup-lab/internal/storage/memory"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock() func() time.Time {
	return func() time.Time { return day(2024, time.November, 1) }
}

func seedReportData(t *testing.T) (*memory.GameStore, *memory.PickStore, *memory.RatingStore) {
	t.Helper()
	ctx := context.Background()

	games := memory.NewGameStore()
	picks := memory.NewPickStore()
	ratings := memory.NewRatingStore()

	seedGames := []*domain.Game{
		{GameID: "g1", League: domain.LeagueNFL, GameDate: day(2024, time.September, 8), HomeTeam: "KC", AwayTeam: "BAL", HomeScore: 27, AwayScore: 20},
		{GameID: "g2", League: domain.LeagueNFL, GameDate: day(2024, time.September, 15), HomeTeam: "SF", AwayTeam: "KC", HomeScore: 21, AwayScore: 24},
	}
	if err := games.InsertBulk(ctx, seedGames); err != nil {
		t.Fatalf("seed games: %v", err)
	}

	seedPicks := []*domain.Pick{
		{PickID: "p2", League: domain.LeagueNFL, GameDate: day(2024, time.October, 27), HomeTeam: "SF", AwayTeam: "BAL", Market: domain.MarketSpread, Direction: domain.DirectionHome, Score: 88, Tier: 5, ActiveCount: 4},
		{PickID: "p1", League: domain.LeagueNFL, GameDate: day(2024, time.October, 20), HomeTeam: "KC", AwayTeam: "BAL", Market: domain.MarketSpread, Direction: domain.DirectionHome, Score: 74, Tier: 4, ActiveCount: 3},
		{PickID: "p3", League: domain.LeagueNFL, GameDate: day(2024, time.October, 27), HomeTeam: "SF", AwayTeam: "BAL", Market: domain.MarketTotal, Direction: domain.DirectionOver, Score: 71, Tier: 4, ActiveCount: 2},
	}
	if err := picks.InsertBulk(ctx, seedPicks); err != nil {
		t.Fatalf("seed picks: %v", err)
	}

	snapshots := []*domain.TeamRating{
		{League: domain.LeagueNFL, Team: "KC", AsOf: day(2024, time.September, 15), Rating: 1540},
		{League: domain.LeagueNFL, Team: "BAL", AsOf: day(2024, time.September, 8), Rating: 1480},
		{League: domain.LeagueNFL, Team: "SF", AsOf: day(2024, time.September, 15), Rating: 1495},
	}
	if err := ratings.ReplaceLeague(ctx, domain.LeagueNFL, snapshots); err != nil {
		t.Fatalf("seed ratings: %v", err)
	}

	return games, picks, ratings
}

func TestGenerate(t *testing.T) {
	games, picks, ratings := seedReportData(t)
	gen := NewGenerator(games, picks, ratings).WithClock(fixedClock())

	report, err := gen.Generate(context.Background(), []string{domain.LeagueNFL})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if report.GeneratedAt != day(2024, time.November, 1) {
		t.Errorf("GeneratedAt should come from the injected clock")
	}
	if report.LeagueCount != 1 {
		t.Errorf("LeagueCount: got %d, want 1", report.LeagueCount)
	}
	if report.PickCount != 3 {
		t.Errorf("PickCount: got %d, want 3", report.PickCount)
	}
	if report.DataSummary.TotalGames != 2 {
		t.Errorf("TotalGames: got %d, want 2", report.DataSummary.TotalGames)
	}
	if report.DataSummary.DateRangeStart != day(2024, time.October, 20).UnixMilli() {
		t.Errorf("DateRangeStart should be the earliest pick date")
	}
	if report.DataSummary.DateRangeEnd != day(2024, time.October, 27).UnixMilli() {
		t.Errorf("DateRangeEnd should be the latest pick date")
	}

	// Pick rows follow the store's (game_date, pick_id) order.
	if len(report.Picks) != 3 {
		t.Fatalf("expected 3 pick rows, got %d", len(report.Picks))
	}
	if report.Picks[0].Score != 74 {
		t.Errorf("first row should be the earliest game, got score %d", report.Picks[0].Score)
	}

	// Tier distribution is sorted highest tier first.
	if len(report.TierDistribution) != 2 {
		t.Fatalf("expected 2 tier rows, got %d", len(report.TierDistribution))
	}
	if report.TierDistribution[0].Tier != 5 || report.TierDistribution[0].Count != 1 {
		t.Errorf("tier 5 row: got %+v", report.TierDistribution[0])
	}
	if report.TierDistribution[1].Tier != 4 || report.TierDistribution[1].Count != 2 {
		t.Errorf("tier 4 row: got %+v", report.TierDistribution[1])
	}

	// Ratings cover every team seen in games, sorted by rating descending.
	if len(report.Ratings) != 3 {
		t.Fatalf("expected 3 rating rows, got %d", len(report.Ratings))
	}
	if report.Ratings[0].Team != "KC" || report.Ratings[0].Rating != 1540 {
		t.Errorf("leader: got %+v", report.Ratings[0])
	}
	if report.Ratings[2].Team != "BAL" {
		t.Errorf("tail: got %+v", report.Ratings[2])
	}
}

func TestGenerate_EmptyStores(t *testing.T) {
	gen := NewGenerator(memory.NewGameStore(), memory.NewPickStore(), memory.NewRatingStore()).
		WithClock(fixedClock())

	report, err := gen.Generate(context.Background(), []string{domain.LeagueNFL})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if report.PickCount != 0 || len(report.Picks) != 0 {
		t.Errorf("empty stores should yield an empty slate")
	}
	if report.DataSummary.DateRangeStart != 0 || report.DataSummary.DateRangeEnd != 0 {
		t.Errorf("empty slate should keep a zero date range")
	}
}

func TestRenderMarkdown(t *testing.T) {
	games, picks, ratings := seedReportData(t)
	gen := NewGenerator(games, picks, ratings).WithClock(fixedClock())

	report, err := gen.Generate(context.Background(), []string{domain.LeagueNFL})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	md := RenderMarkdown(report)

	for _, want := range []string{
		"# Pick Sheet",
		"Leagues: 1 | Picks: 3",
		"## Slate",
		"| NFL | 2024-10-20 | BAL @ KC | SPREAD | HOME | 74 | 4 | 3 |",
		"## Tier Distribution",
		"## Current Ratings",
		"| NFL | KC | 1540.0 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdown_EmptySlate(t *testing.T) {
	md := RenderMarkdown(&Report{GeneratedAt: day(2024, time.November, 1)})
	if !strings.Contains(md, "No picks cleared the score floor.") {
		t.Errorf("empty slate message missing")
	}
	if !strings.Contains(md, "No ratings available.") {
		t.Errorf("empty ratings message missing")
	}
}

func TestRenderCSV(t *testing.T) {
	rows := []PickRow{
		{League: domain.LeagueNFL, GameDate: day(2024, time.October, 20), HomeTeam: "KC", AwayTeam: "BAL", Market: "SPREAD", Direction: "HOME", Score: 74, Tier: 4, ActiveCount: 3},
	}

	csv := RenderCSV(rows)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 row, got %d lines", len(lines))
	}
	if lines[0] != "league,game_date,home_team,away_team,market,direction,score,tier,active_signals" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != "NFL,2024-10-20,KC,BAL,SPREAD,HOME,74,4,3" {
		t.Errorf("unexpected row: %s", lines[1])
	}
}
