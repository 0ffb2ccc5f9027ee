// Package rating implements the incremental rating engine: a deterministic
// chronological fold of a league's game history into per-team, per-date
// rating snapshots. Elo updates are scaled by margin of victory and the
// whole league regresses toward the base rating at season boundaries.
package rating

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"matchup-lab/internal/domain"
	"matchup-lab/internal/season"
)

// Contract violations surfaced to the caller. Missing data inside a game
// never errors; a malformed stream does.
var (
	ErrUnorderedHistory = errors.New("game history is not in ascending date order")
	ErrMissingDate      = errors.New("game has no date")
	ErrLeagueMismatch   = errors.New("game league does not match engine league")
)

// Engine folds an ordered game history into rating snapshots for one
// league. It holds no mutable state between folds: every Fold is a full,
// idempotent rebuild, so identical input produces identical output.
type Engine struct {
	params domain.LeagueParams
	policy season.Policy
}

// NewEngine creates an Engine for one league's parameters. The season
// policy is injected rather than derived from the params so it can be
// tested and swapped independently.
func NewEngine(params domain.LeagueParams, policy season.Policy) *Engine {
	return &Engine{params: params, policy: policy}
}

// Expected returns the home team's pre-game win probability given both
// pre-game ratings. Home-field advantage applies only off neutral sites.
func (e *Engine) Expected(homeRating, awayRating float64, neutralSite bool) float64 {
	hfa := 0.0
	if !neutralSite {
		hfa = e.params.HomeAdvantage
	}
	diff := homeRating + hfa - awayRating
	return 1 / (1 + math.Pow(10, -diff/400))
}

// movMultiplier scales rating credit by victory margin, dampened when the
// winner was already rated far above the loser so expected blowouts do not
// inflate ratings, and boosted for upsets.
func movMultiplier(margin int, winnerRating, loserRating float64) float64 {
	m := math.Abs(float64(margin))
	return math.Log(m+1) * 2.2 / (0.001*(winnerRating-loserRating) + 2.2)
}

// Fold replays games in order and returns the complete snapshot set,
// sorted by (date, team). Teams start at domain.BaseRating the first time
// they appear. When a team plays twice on one date only the last update
// for that date survives as the snapshot.
func (e *Engine) Fold(games []*domain.Game) ([]*domain.TeamRating, error) {
	ratings := make(map[string]float64)
	snapshots := make([]*domain.TeamRating, 0, len(games)*2)
	snapIndex := make(map[string]int) // team|date -> index into snapshots

	var prevDate time.Time

	for i, g := range games {
		if g.GameDate.IsZero() {
			return nil, fmt.Errorf("game %d (%s vs %s): %w", i, g.HomeTeam, g.AwayTeam, ErrMissingDate)
		}
		if g.League != e.params.League {
			return nil, fmt.Errorf("game %d is %s: %w", i, g.League, ErrLeagueMismatch)
		}
		if g.GameDate.Before(prevDate) {
			return nil, fmt.Errorf("game %d dated %s after %s: %w",
				i, g.GameDate.Format("2006-01-02"), prevDate.Format("2006-01-02"), ErrUnorderedHistory)
		}

		// Season turnover pulls every known team toward the base rating
		// before the new season's first game is processed.
		if e.policy.Boundary(prevDate, g.GameDate) {
			for team, r := range ratings {
				ratings[team] = r - (r-domain.BaseRating)*e.params.SeasonRegression
			}
		}

		home := teamRating(ratings, g.HomeTeam)
		away := teamRating(ratings, g.AwayTeam)

		delta := e.gameDelta(g, home, away)
		ratings[g.HomeTeam] = home + delta
		ratings[g.AwayTeam] = away - delta

		record(&snapshots, snapIndex, g.HomeTeam, e.params.League, g.GameDate, ratings[g.HomeTeam])
		record(&snapshots, snapIndex, g.AwayTeam, e.params.League, g.GameDate, ratings[g.AwayTeam])

		prevDate = g.GameDate
	}

	sort.Slice(snapshots, func(i, j int) bool {
		if !snapshots[i].AsOf.Equal(snapshots[j].AsOf) {
			return snapshots[i].AsOf.Before(snapshots[j].AsOf)
		}
		return snapshots[i].Team < snapshots[j].Team
	})

	return snapshots, nil
}

// gameDelta computes the signed rating change applied to the home team
// (the away team receives its negation).
func (e *Engine) gameDelta(g *domain.Game, home, away float64) float64 {
	expected := e.Expected(home, away, g.NeutralSite)

	var actual float64
	switch {
	case g.HomeWon():
		actual = 1
	case g.Tied():
		actual = 0.5
	default:
		actual = 0
	}

	winner, loser := home, away
	if !g.HomeWon() && !g.Tied() {
		winner, loser = away, home
	}

	mov := movMultiplier(g.Margin(), winner, loser)
	return e.params.EloK * mov * (actual - expected)
}

// teamRating returns a team's current rating, seeding unseen teams at the
// base rating.
func teamRating(ratings map[string]float64, team string) float64 {
	if r, ok := ratings[team]; ok {
		return r
	}
	ratings[team] = domain.BaseRating
	return domain.BaseRating
}

// record writes or overwrites the snapshot for (team, date).
func record(out *[]*domain.TeamRating, index map[string]int, team, league string, date time.Time, rating float64) {
	key := team + "|" + date.Format("2006-01-02")
	if i, ok := index[key]; ok {
		(*out)[i].Rating = rating
		return
	}
	index[key] = len(*out)
	*out = append(*out, &domain.TeamRating{
		Team:   team,
		League: league,
		AsOf:   date,
		Rating: rating,
	})
}
