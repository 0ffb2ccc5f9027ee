// Package season derives season epochs from calendar dates.
// Leagues that span a calendar-year boundary (NBA, NCAAB) label the whole
// season with its starting year, so the policy is a per-league start month
// rather than inline date arithmetic in the rating fold.
package season

import "time"

// Policy maps a game date to a season label for one league.
type Policy struct {
	// StartMonth is the first month of a new season. Games dated at or
	// after it belong to the season of their own calendar year; earlier
	// games belong to the prior year's season.
	StartMonth time.Month
}

// ForMonth creates a Policy starting at the given month.
func ForMonth(m time.Month) Policy {
	return Policy{StartMonth: m}
}

// Season returns the season label for a game date.
func (p Policy) Season(date time.Time) int {
	if date.Month() >= p.StartMonth {
		return date.Year()
	}
	return date.Year() - 1
}

// Boundary reports whether moving from prev to next crosses a season
// boundary. Zero prev (first game of a history) is never a boundary.
func (p Policy) Boundary(prev, next time.Time) bool {
	if prev.IsZero() {
		return false
	}
	return p.Season(prev) != p.Season(next)
}
