package reporting

import (
	"context"
	"sort"
	"time"

	"matchup-lab/internal/domain"
	"matchup-lab/internal/storage"
)

// Generator produces pick sheets from stored data.
type Generator struct {
	gameStore   storage.GameStore
	pickStore   storage.PickStore
	ratingStore storage.RatingStore
	now         func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(
	gameStore storage.GameStore,
	pickStore storage.PickStore,
	ratingStore storage.RatingStore,
) *Generator {
	return &Generator{
		gameStore:   gameStore,
		pickStore:   pickStore,
		ratingStore: ratingStore,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a pick sheet covering the given leagues.
func (g *Generator) Generate(ctx context.Context, leagues []string) (*Report, error) {
	sorted := append([]string(nil), leagues...)
	sort.Strings(sorted)

	var (
		rows       []PickRow
		ratings    []RatingRow
		totalGames int
	)
	tierCounts := make(map[int]int)
	summary := DataSummary{}

	for _, league := range sorted {
		picks, err := g.pickStore.GetByLeague(ctx, league)
		if err != nil {
			return nil, err
		}
		for _, p := range picks {
			rows = append(rows, PickRow{
				League:      p.League,
				GameDate:    p.GameDate,
				HomeTeam:    p.HomeTeam,
				AwayTeam:    p.AwayTeam,
				Market:      string(p.Market),
				Direction:   string(p.Direction),
				Score:       p.Score,
				Tier:        p.Tier,
				ActiveCount: p.ActiveCount,
			})
			tierCounts[p.Tier]++

			ms := p.GameDate.UnixMilli()
			if summary.DateRangeStart == 0 || ms < summary.DateRangeStart {
				summary.DateRangeStart = ms
			}
			if ms > summary.DateRangeEnd {
				summary.DateRangeEnd = ms
			}
		}

		games, err := g.gameStore.GetByLeagueOrdered(ctx, league)
		if err != nil {
			return nil, err
		}
		totalGames += len(games)

		leagueRatings, err := g.currentRatings(ctx, league, games)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, leagueRatings...)
	}

	summary.TotalGames = totalGames
	summary.TotalPicks = len(rows)

	tiers := make([]TierCountRow, 0, len(tierCounts))
	for tier, count := range tierCounts {
		tiers = append(tiers, TierCountRow{Tier: tier, Count: count})
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Tier > tiers[j].Tier })

	return &Report{
		GeneratedAt:      g.now(),
		LeagueCount:      len(sorted),
		PickCount:        len(rows),
		DataSummary:      summary,
		Picks:            rows,
		TierDistribution: tiers,
		Ratings:          ratings,
	}, nil
}

// currentRatings resolves the as-of-now rating for every team that has
// played in the league, sorted by rating descending then by team name.
func (g *Generator) currentRatings(ctx context.Context, league string, games []*domain.Game) ([]RatingRow, error) {
	teams := make(map[string]struct{})
	for _, game := range games {
		teams[game.HomeTeam] = struct{}{}
		teams[game.AwayTeam] = struct{}{}
	}

	asOf := g.now()
	rows := make([]RatingRow, 0, len(teams))
	for team := range teams {
		rating, err := g.ratingStore.CurrentRating(ctx, league, team, asOf)
		if err != nil {
			return nil, err
		}
		rows = append(rows, RatingRow{League: league, Team: team, Rating: rating})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Rating != rows[j].Rating {
			return rows[i].Rating > rows[j].Rating
		}
		return rows[i].Team < rows[j].Team
	})
	return rows, nil
}
