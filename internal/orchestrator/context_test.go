package orchestrator

import (
	"context"
	"testing"
	"time"

	"matchup-lab/internal/domain"
)

func TestATSOutcome(t *testing.T) {
	game := func(home, away int) *domain.Game {
		return &domain.Game{HomeTeam: "KC", AwayTeam: "BAL", HomeScore: home, AwayScore: away}
	}

	tests := []struct {
		name   string
		g      *domain.Game
		team   string
		spread float64
		want   int
	}{
		{"home favorite covers", game(30, 20), "KC", -3, 1},
		{"home favorite wins but misses", game(22, 20), "KC", -3, -1},
		{"home push", game(23, 20), "KC", -3, 0},
		{"away side of a home cover", game(30, 20), "BAL", -3, -1},
		{"away underdog covers outright loss", game(22, 20), "BAL", -3, 1},
		{"home underdog covers a loss", game(20, 21), "KC", 2.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := atsOutcome(tt.g, tt.team, tt.spread); got != tt.want {
				t.Errorf("atsOutcome = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPreferredLine(t *testing.T) {
	opening := &domain.MarketLine{Source: "opening"}
	consensus := &domain.MarketLine{Source: "consensus"}
	closing := &domain.MarketLine{Source: "closing"}

	if got := preferredLine([]*domain.MarketLine{opening, consensus, closing}); got != closing {
		t.Errorf("closing should win over every other source")
	}
	if got := preferredLine([]*domain.MarketLine{opening, consensus}); got != consensus {
		t.Errorf("consensus should win when closing is absent")
	}
	if got := preferredLine([]*domain.MarketLine{opening}); got != opening {
		t.Errorf("lone source should be returned")
	}
	if got := preferredLine(nil); got != nil {
		t.Errorf("no lines should yield nil, got %+v", got)
	}
}

// seedGame inserts a finished game with a closing spread and total.
func seedGame(t *testing.T, s testStores, id string, date time.Time, home, away string, hs, as int, spread, total float64) {
	t.Helper()
	ctx := context.Background()

	g := &domain.Game{
		GameID: id, League: domain.LeagueNFL, GameDate: date,
		HomeTeam: home, AwayTeam: away, HomeScore: hs, AwayScore: as,
	}
	if err := s.games.Insert(ctx, g); err != nil {
		t.Fatalf("seed game %s: %v", id, err)
	}
	line := &domain.MarketLine{
		GameID: id, League: domain.LeagueNFL, Source: "closing",
		Spread: fptr(spread), Total: fptr(total),
	}
	if err := s.lines.Insert(ctx, line); err != nil {
		t.Fatalf("seed line %s: %v", id, err)
	}
}

func TestFoldTeamRecords(t *testing.T) {
	s := newTestStores()
	o := newTestOrchestrator(t, s, nil)

	// KC's season in date order. ATS outcomes: W W L P L W L.
	seedGame(t, s, "g1", day(2024, time.September, 1), "KC", "ATL", 30, 20, -3, 45)  // cover, over
	seedGame(t, s, "g2", day(2024, time.September, 8), "BUF", "KC", 21, 28, -3, 45)  // KC covers away, over
	seedGame(t, s, "g3", day(2024, time.September, 15), "KC", "CIN", 20, 23, -3, 45) // miss, under
	seedGame(t, s, "g4", day(2024, time.September, 22), "KC", "DEN", 24, 21, -3, 45) // push, push
	seedGame(t, s, "g5", day(2024, time.September, 29), "KC", "DET", 17, 27, 2, 45)  // miss, under
	seedGame(t, s, "g6", day(2024, time.October, 6), "KC", "GB", 35, 10, -7, 44)     // cover, over
	seedGame(t, s, "g7", day(2024, time.October, 13), "KC", "HOU", 21, 20, -2, 45)   // miss, under

	ats, ou, err := o.foldTeamRecords(context.Background(), domain.LeagueNFL, "KC",
		day(2024, time.August, 1), day(2024, time.October, 19))
	if err != nil {
		t.Fatalf("foldTeamRecords failed: %v", err)
	}

	if ats.full.Wins != 3 || ats.full.Losses != 3 || ats.full.Pushes != 1 {
		t.Errorf("season ATS: got %d-%d-%d, want 3-3-1", ats.full.Wins, ats.full.Losses, ats.full.Pushes)
	}
	// Trailing five decided games: L W L L W, plus the push inside the span.
	if ats.recent.Wins != 2 || ats.recent.Losses != 3 || ats.recent.Pushes != 1 {
		t.Errorf("recent ATS: got %d-%d-%d, want 2-3-1", ats.recent.Wins, ats.recent.Losses, ats.recent.Pushes)
	}
	if ou.Wins != 3 || ou.Losses != 3 || ou.Pushes != 1 {
		t.Errorf("over/under: got %d-%d-%d, want 3-3-1", ou.Wins, ou.Losses, ou.Pushes)
	}
}

func TestFoldTeamRecords_EmptySpanAndNoLines(t *testing.T) {
	s := newTestStores()
	o := newTestOrchestrator(t, s, nil)
	ctx := context.Background()

	// Inverted span folds to empty records without touching the stores.
	ats, ou, err := o.foldTeamRecords(ctx, domain.LeagueNFL, "KC",
		day(2024, time.September, 1), day(2024, time.August, 1))
	if err != nil {
		t.Fatalf("foldTeamRecords failed: %v", err)
	}
	if ats.full.Trials() != 0 || ats.recent.Trials() != 0 || ou.Trials() != 0 {
		t.Errorf("inverted span should yield empty records")
	}

	// A game with no posted line contributes nothing.
	g := &domain.Game{
		GameID: "g1", League: domain.LeagueNFL, GameDate: day(2024, time.September, 1),
		HomeTeam: "KC", AwayTeam: "ATL", HomeScore: 30, AwayScore: 20,
	}
	if err := s.games.Insert(ctx, g); err != nil {
		t.Fatalf("seed game: %v", err)
	}
	ats, ou, err = o.foldTeamRecords(ctx, domain.LeagueNFL, "KC",
		day(2024, time.August, 1), day(2024, time.October, 1))
	if err != nil {
		t.Fatalf("foldTeamRecords failed: %v", err)
	}
	if ats.full.Trials() != 0 || ou.Trials() != 0 {
		t.Errorf("game without a line should not count")
	}
}

func TestFoldHeadToHead_PriorMeetingsOnly(t *testing.T) {
	s := newTestStores()
	o := newTestOrchestrator(t, s, nil)

	seedGame(t, s, "h1", day(2024, time.September, 1), "KC", "BAL", 30, 20, -3, 45) // KC covers
	seedGame(t, s, "h2", day(2024, time.October, 1), "BAL", "KC", 28, 21, -3, 45)   // BAL covers, KC misses
	seedGame(t, s, "h3", day(2024, time.November, 1), "KC", "BAL", 40, 10, -3, 45)  // after the matchup

	m := &domain.MatchupContext{
		League:   domain.LeagueNFL,
		GameDate: day(2024, time.October, 20),
		HomeTeam: "KC",
		AwayTeam: "BAL",
	}

	rec, err := o.foldHeadToHead(context.Background(), m)
	if err != nil {
		t.Fatalf("foldHeadToHead failed: %v", err)
	}
	if rec.Wins != 1 || rec.Losses != 1 || rec.Pushes != 0 {
		t.Errorf("head to head: got %d-%d-%d, want 1-1-0", rec.Wins, rec.Losses, rec.Pushes)
	}
}

func TestRestDays(t *testing.T) {
	s := newTestStores()
	o := newTestOrchestrator(t, s, nil)
	ctx := context.Background()

	seedGame(t, s, "g1", day(2024, time.October, 13), "KC", "HOU", 21, 20, -2, 45)

	rest, err := o.restDays(ctx, domain.LeagueNFL, "KC", day(2024, time.October, 20), 30)
	if err != nil {
		t.Fatalf("restDays failed: %v", err)
	}
	if rest == nil || *rest != 7 {
		t.Errorf("rest days: got %v, want 7", rest)
	}

	// No prior game inside the lookback keeps rest unknown.
	rest, err = o.restDays(ctx, domain.LeagueNFL, "SEA", day(2024, time.October, 20), 30)
	if err != nil {
		t.Fatalf("restDays failed: %v", err)
	}
	if rest != nil {
		t.Errorf("unknown rest should stay nil, got %d", *rest)
	}
}

func TestEnrich_FillsContextFromStores(t *testing.T) {
	s := newTestStores()
	ctx := context.Background()

	snapshots := []*domain.TeamRating{
		{League: domain.LeagueNFL, Team: "KC", AsOf: day(2024, time.September, 1), Rating: 1580},
		{League: domain.LeagueNFL, Team: "BAL", AsOf: day(2024, time.September, 1), Rating: 1510},
	}
	if err := s.ratings.ReplaceLeague(ctx, domain.LeagueNFL, snapshots); err != nil {
		t.Fatalf("seed ratings: %v", err)
	}

	o := newTestOrchestrator(t, s, nil)

	seedGame(t, s, "g1", day(2024, time.October, 13), "KC", "HOU", 21, 20, -2, 45)
	seedGame(t, s, "g2", day(2024, time.October, 14), "BAL", "CIN", 28, 24, -3, 50)

	// Upcoming matchup line stored against its deterministic game ID.
	m := &domain.MatchupContext{
		League:   domain.LeagueNFL,
		GameDate: day(2024, time.October, 20),
		HomeTeam: "KC",
		AwayTeam: "BAL",
	}
	line := &domain.MarketLine{
		GameID: idGameID(m), League: domain.LeagueNFL, Source: "closing",
		Spread: fptr(-2.5), Total: fptr(47.5),
	}
	if err := s.lines.Insert(ctx, line); err != nil {
		t.Fatalf("seed matchup line: %v", err)
	}

	rt := o.leagues[domain.LeagueNFL]
	if err := o.enrich(ctx, m, rt); err != nil {
		t.Fatalf("enrich failed: %v", err)
	}

	if m.HomeElo == nil || *m.HomeElo != 1580 {
		t.Errorf("HomeElo: got %v, want 1580", m.HomeElo)
	}
	if m.AwayElo == nil || *m.AwayElo != 1510 {
		t.Errorf("AwayElo: got %v, want 1510", m.AwayElo)
	}
	if m.SpreadLine == nil || *m.SpreadLine != -2.5 {
		t.Errorf("SpreadLine: got %v, want -2.5", m.SpreadLine)
	}
	if m.TotalLine == nil || *m.TotalLine != 47.5 {
		t.Errorf("TotalLine: got %v, want 47.5", m.TotalLine)
	}
	if m.HomeATSSeason == nil || m.HomeATSSeason.Trials() != 1 {
		t.Errorf("HomeATSSeason should fold the one played game")
	}
	if m.HomeRestDays == nil || *m.HomeRestDays != 7 {
		t.Errorf("HomeRestDays: got %v, want 7", m.HomeRestDays)
	}
	if m.AwayRestDays == nil || *m.AwayRestDays != 6 {
		t.Errorf("AwayRestDays: got %v, want 6", m.AwayRestDays)
	}
	if m.HeadToHeadATS == nil {
		t.Errorf("HeadToHeadATS should be folded, even when empty")
	}
}

func TestEnrich_DoesNotOverrideProvidedValues(t *testing.T) {
	s := newTestStores()
	ctx := context.Background()

	snapshots := []*domain.TeamRating{
		{League: domain.LeagueNFL, Team: "KC", AsOf: day(2024, time.September, 1), Rating: 1580},
	}
	if err := s.ratings.ReplaceLeague(ctx, domain.LeagueNFL, snapshots); err != nil {
		t.Fatalf("seed ratings: %v", err)
	}

	o := newTestOrchestrator(t, s, nil)

	m := &domain.MatchupContext{
		League:     domain.LeagueNFL,
		GameDate:   day(2024, time.October, 20),
		HomeTeam:   "KC",
		AwayTeam:   "BAL",
		HomeElo:    fptr(1700), // caller-supplied, must survive enrichment
		SpreadLine: fptr(-6),
	}

	rt := o.leagues[domain.LeagueNFL]
	if err := o.enrich(ctx, m, rt); err != nil {
		t.Fatalf("enrich failed: %v", err)
	}

	if *m.HomeElo != 1700 {
		t.Errorf("HomeElo overridden: got %v", *m.HomeElo)
	}
	if *m.SpreadLine != -6 {
		t.Errorf("SpreadLine overridden: got %v", *m.SpreadLine)
	}
}
