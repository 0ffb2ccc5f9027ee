package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"matchup-lab/internal/domain"
	"matchup-lab/internal/storage"
)

// LineStore implements storage.LineStore using PostgreSQL.
type LineStore struct {
	pool *Pool
}

// NewLineStore creates a new LineStore.
func NewLineStore(pool *Pool) *LineStore {
	return &LineStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LineStore = (*LineStore)(nil)

// Insert adds a new market line. Returns ErrDuplicateKey on (game_id, source) collision.
func (s *LineStore) Insert(ctx context.Context, l *domain.MarketLine) error {
	if l == nil || l.GameID == "" || l.Source == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO market_lines (game_id, league, spread, total, source)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.pool.QueryRow(ctx, query,
		l.GameID,
		l.League,
		l.Spread,
		l.Total,
		l.Source,
	).Scan(&l.ID)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert market line: %w", err)
	}
	return nil
}

// InsertBulk adds multiple lines atomically. Fails entire batch on any duplicate.
func (s *LineStore) InsertBulk(ctx context.Context, lines []*domain.MarketLine) error {
	if len(lines) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO market_lines (game_id, league, spread, total, source)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	for _, l := range lines {
		if l == nil || l.GameID == "" || l.Source == "" {
			return storage.ErrInvalidInput
		}
		err := tx.QueryRow(ctx, query,
			l.GameID,
			l.League,
			l.Spread,
			l.Total,
			l.Source,
		).Scan(&l.ID)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert market line in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByGameID retrieves all lines recorded for a game, ordered by source.
func (s *LineStore) GetByGameID(ctx context.Context, gameID string) ([]*domain.MarketLine, error) {
	query := `
		SELECT id, game_id, league, spread, total, source, created_at
		FROM market_lines
		WHERE game_id = $1
		ORDER BY source ASC
	`

	rows, err := s.pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("get lines by game id: %w", err)
	}
	defer rows.Close()

	return scanLines(rows)
}

// scanLines scans multiple rows into a slice of MarketLine.
func scanLines(rows pgx.Rows) ([]*domain.MarketLine, error) {
	var lines []*domain.MarketLine

	for rows.Next() {
		var l domain.MarketLine

		err := rows.Scan(
			&l.ID,
			&l.GameID,
			&l.League,
			&l.Spread,
			&l.Total,
			&l.Source,
			&l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan market line row: %w", err)
		}

		lines = append(lines, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate market line rows: %w", err)
	}

	return lines, nil
}
