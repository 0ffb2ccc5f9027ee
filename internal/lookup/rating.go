// Package lookup provides point-in-time reads over materialized rating
// snapshot history.
package lookup

import (
	"time"

	"matchup-lab/internal/domain"
)

// RatingAt returns the most recent rating at or before asOf from a team's
// snapshot history ordered by AsOf ascending. A team with no snapshot at
// or before the date rates domain.BaseRating, never an error, so a brand
// new team is simply average until it plays.
func RatingAt(asOf time.Time, history []*domain.TeamRating) float64 {
	for i := len(history) - 1; i >= 0; i-- {
		if !history[i].AsOf.After(asOf) {
			return history[i].Rating
		}
	}
	return domain.BaseRating
}

// Latest returns the newest rating in the history, or domain.BaseRating
// for an empty history.
func Latest(history []*domain.TeamRating) float64 {
	if len(history) == 0 {
		return domain.BaseRating
	}
	return history[len(history)-1].Rating
}
