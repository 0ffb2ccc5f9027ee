package clickhouse

import (
	"context"
	"fmt"
	"time"

	"matchup-lab/internal/domain"
	"matchup-lab/internal/storage"
)

// RatingHistoryStore implements storage.RatingHistoryStore using ClickHouse.
// Each recompute archives its full snapshot set under a version tag, so the
// table keeps every rating the system ever published.
type RatingHistoryStore struct {
	conn *Conn
}

// NewRatingHistoryStore creates a new RatingHistoryStore.
func NewRatingHistoryStore(conn *Conn) *RatingHistoryStore {
	return &RatingHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.RatingHistoryStore = (*RatingHistoryStore)(nil)

// AppendVersion archives one published snapshot set under a version tag.
func (s *RatingHistoryStore) AppendVersion(ctx context.Context, league string, version int64, snapshots []*domain.TeamRating) error {
	if league == "" {
		return storage.ErrInvalidInput
	}
	if len(snapshots) == 0 {
		return nil
	}
	for _, r := range snapshots {
		if r == nil || r.Team == "" || r.AsOf.IsZero() || r.League != league {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO rating_history (
			league, team, as_of, rating, version
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range snapshots {
		err = batch.Append(
			r.League, r.Team, r.AsOf, r.Rating, version,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetTeamRange retrieves archived points for a team within [start, end],
// across versions, ordered by as_of ASC, version ASC.
func (s *RatingHistoryStore) GetTeamRange(ctx context.Context, league, team string, start, end time.Time) ([]*domain.TeamRating, error) {
	query := `
		SELECT league, team, as_of, rating
		FROM rating_history
		WHERE league = ? AND team = ? AND as_of >= ? AND as_of <= ?
		ORDER BY as_of ASC, version ASC
	`

	rows, err := s.conn.Query(ctx, query, league, team, start, end)
	if err != nil {
		return nil, fmt.Errorf("get rating history range: %w", err)
	}
	defer rows.Close()

	var ratings []*domain.TeamRating
	for rows.Next() {
		var r domain.TeamRating
		if err := rows.Scan(&r.League, &r.Team, &r.AsOf, &r.Rating); err != nil {
			return nil, fmt.Errorf("scan rating history row: %w", err)
		}
		ratings = append(ratings, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating history rows: %w", err)
	}

	return ratings, nil
}
