package domain

import "time"

// Pick is a graded-later recommendation for one matchup/market.
// Produced fresh per evaluation; persisted only for grading, never read
// back into scoring.
type Pick struct {
	PickID      string // deterministic hash
	League      string
	GameDate    time.Time
	HomeTeam    string
	AwayTeam    string
	Market      Market
	Direction   Direction
	Score       int // convergence score, integer in [0,100]
	Tier        int // confidence tier from score cutoffs
	ActiveCount int // active signals behind the pick
	CreatedAt   int64 // record creation timestamp (ms)
}

// TrendRecord is a win/loss/push record against a posted number.
// Pushes are excluded from the trial count fed to the significance test.
type TrendRecord struct {
	Wins   int
	Losses int
	Pushes int
}

// Trials returns the decided sample size (pushes excluded).
func (r TrendRecord) Trials() int {
	return r.Wins + r.Losses
}

// Rate returns the win rate over decided games, 0 when no decisions.
func (r TrendRecord) Rate() float64 {
	t := r.Trials()
	if t == 0 {
		return 0
	}
	return float64(r.Wins) / float64(t)
}
