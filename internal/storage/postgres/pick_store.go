package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"matchup-lab/internal/domain"
	"matchup-lab/internal/storage"
)

// PickStore implements storage.PickStore using PostgreSQL.
type PickStore struct {
	pool *Pool
}

// NewPickStore creates a new PickStore.
func NewPickStore(pool *Pool) *PickStore {
	return &PickStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PickStore = (*PickStore)(nil)

// Insert adds a new pick. Returns ErrDuplicateKey if pick_id exists.
func (s *PickStore) Insert(ctx context.Context, p *domain.Pick) error {
	if p == nil || p.PickID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO picks (
			pick_id, league, game_date, home_team, away_team, market, direction, score, tier, active_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.pool.Exec(ctx, query,
		p.PickID,
		p.League,
		p.GameDate,
		p.HomeTeam,
		p.AwayTeam,
		string(p.Market),
		string(p.Direction),
		p.Score,
		p.Tier,
		p.ActiveCount,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert pick: %w", err)
	}
	return nil
}

// InsertBulk adds multiple picks atomically. Fails entire batch on any duplicate.
func (s *PickStore) InsertBulk(ctx context.Context, picks []*domain.Pick) error {
	if len(picks) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO picks (
			pick_id, league, game_date, home_team, away_team, market, direction, score, tier, active_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, p := range picks {
		if p == nil || p.PickID == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			p.PickID,
			p.League,
			p.GameDate,
			p.HomeTeam,
			p.AwayTeam,
			string(p.Market),
			string(p.Direction),
			p.Score,
			p.Tier,
			p.ActiveCount,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert pick in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a pick by its ID. Returns ErrNotFound if not exists.
func (s *PickStore) GetByID(ctx context.Context, pickID string) (*domain.Pick, error) {
	query := `
		SELECT pick_id, league, game_date, home_team, away_team, market, direction, score, tier, active_count, created_at
		FROM picks
		WHERE pick_id = $1
	`

	row := s.pool.QueryRow(ctx, query, pickID)
	p, err := scanPick(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get pick by id: %w", err)
	}
	return p, nil
}

// GetByLeague retrieves a league's picks ordered by game date ASC.
func (s *PickStore) GetByLeague(ctx context.Context, league string) ([]*domain.Pick, error) {
	query := `
		SELECT pick_id, league, game_date, home_team, away_team, market, direction, score, tier, active_count, created_at
		FROM picks
		WHERE league = $1
		ORDER BY game_date ASC, pick_id ASC
	`

	rows, err := s.pool.Query(ctx, query, league)
	if err != nil {
		return nil, fmt.Errorf("get picks by league: %w", err)
	}
	defer rows.Close()

	var picks []*domain.Pick
	for rows.Next() {
		var p domain.Pick
		var marketStr, directionStr string
		err := rows.Scan(
			&p.PickID,
			&p.League,
			&p.GameDate,
			&p.HomeTeam,
			&p.AwayTeam,
			&marketStr,
			&directionStr,
			&p.Score,
			&p.Tier,
			&p.ActiveCount,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan pick row: %w", err)
		}
		p.Market = domain.Market(marketStr)
		p.Direction = domain.Direction(directionStr)
		picks = append(picks, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pick rows: %w", err)
	}

	return picks, nil
}

// scanPick scans a single row into a Pick.
func scanPick(row pgx.Row) (*domain.Pick, error) {
	var p domain.Pick
	var marketStr, directionStr string

	err := row.Scan(
		&p.PickID,
		&p.League,
		&p.GameDate,
		&p.HomeTeam,
		&p.AwayTeam,
		&marketStr,
		&directionStr,
		&p.Score,
		&p.Tier,
		&p.ActiveCount,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Market = domain.Market(marketStr)
	p.Direction = domain.Direction(directionStr)
	return &p, nil
}
