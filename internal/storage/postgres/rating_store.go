package postgres

import (
	"context"
	"fmt"
	"time"

	"matchup-lab/internal/domain"
	"matchup-lab/internal/storage"
)

// RatingStore implements storage.RatingStore using PostgreSQL.
type RatingStore struct {
	pool *Pool
}

// NewRatingStore creates a new RatingStore.
func NewRatingStore(pool *Pool) *RatingStore {
	return &RatingStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RatingStore = (*RatingStore)(nil)

// ReplaceLeague swaps the entire snapshot set for a league in one transaction.
// A recompute either lands fully or not at all; readers never see a partial set.
func (s *RatingStore) ReplaceLeague(ctx context.Context, league string, snapshots []*domain.TeamRating) error {
	if league == "" {
		return storage.ErrInvalidInput
	}
	for _, r := range snapshots {
		if r == nil || r.Team == "" || r.AsOf.IsZero() || r.League != league {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM team_ratings WHERE league = $1`, league); err != nil {
		return fmt.Errorf("clear league ratings: %w", err)
	}

	query := `
		INSERT INTO team_ratings (league, team, as_of, rating)
		VALUES ($1, $2, $3, $4)
	`
	for _, r := range snapshots {
		if _, err := tx.Exec(ctx, query, r.League, r.Team, r.AsOf, r.Rating); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert rating snapshot: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetTeamHistory retrieves a team's rating snapshots ordered by as_of ASC.
func (s *RatingStore) GetTeamHistory(ctx context.Context, league, team string) ([]*domain.TeamRating, error) {
	query := `
		SELECT league, team, as_of, rating, created_at
		FROM team_ratings
		WHERE league = $1 AND team = $2
		ORDER BY as_of ASC
	`

	rows, err := s.pool.Query(ctx, query, league, team)
	if err != nil {
		return nil, fmt.Errorf("get team rating history: %w", err)
	}
	defer rows.Close()

	var ratings []*domain.TeamRating
	for rows.Next() {
		var r domain.TeamRating
		if err := rows.Scan(&r.League, &r.Team, &r.AsOf, &r.Rating, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rating row: %w", err)
		}
		ratings = append(ratings, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating rows: %w", err)
	}

	return ratings, nil
}

// CurrentRating returns the team's most recent rating at or before asOf.
// Teams with no snapshot in range get the base rating, never an error.
func (s *RatingStore) CurrentRating(ctx context.Context, league, team string, asOf time.Time) (float64, error) {
	query := `
		SELECT rating
		FROM team_ratings
		WHERE league = $1 AND team = $2 AND as_of <= $3
		ORDER BY as_of DESC
		LIMIT 1
	`

	var rating float64
	err := s.pool.QueryRow(ctx, query, league, team, asOf).Scan(&rating)
	if err != nil {
		if isNotFoundError(err) {
			return domain.BaseRating, nil
		}
		return 0, fmt.Errorf("get current rating: %w", err)
	}
	return rating, nil
}
