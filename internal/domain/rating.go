package domain

import "time"

// BaseRating is the rating assigned to a team the first time it is seen,
// and the value season regression pulls toward.
const BaseRating = 1500.0

// TeamRating is a post-game rating snapshot for one team.
// Corresponds to team_ratings table in PostgreSQL: one row per team per
// date played. A league's snapshot set is replaced atomically on recompute.
type TeamRating struct {
	Team      string    // canonical team identifier
	League    string    // league identifier
	AsOf      time.Time // date of the game the snapshot follows
	Rating    float64
	CreatedAt int64 // record creation timestamp (ms)
}

// LeagueParams holds the per-league rating and prediction constants.
// Values are configuration, not invariants: defaults live in internal/config.
type LeagueParams struct {
	League string

	// EloK is the base update step applied per game.
	EloK float64

	// HomeAdvantage is the rating-equivalent home bonus for
	// non-neutral-site games.
	HomeAdvantage float64

	// SeasonRegression is the fraction of a rating's distance from
	// BaseRating removed at a season boundary, in [0,1].
	SeasonRegression float64

	// SeasonStartMonth anchors the season-epoch policy: games dated at or
	// after this month belong to the season of their calendar year.
	SeasonStartMonth time.Month

	// PointsPerRating converts a rating differential into a point-spread
	// equivalent (rating points per scoreboard point).
	PointsPerRating float64
}
