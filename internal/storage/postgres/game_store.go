package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"matchup-lab/internal/domain"
	"matchup-lab/internal/storage"
)

// GameStore implements storage.GameStore using PostgreSQL.
type GameStore struct {
	pool *Pool
}

// NewGameStore creates a new GameStore.
func NewGameStore(pool *Pool) *GameStore {
	return &GameStore{pool: pool}
}

// Compile-time interface check.
var _ storage.GameStore = (*GameStore)(nil)

// Insert adds a new game. Returns ErrDuplicateKey if game_id exists.
func (s *GameStore) Insert(ctx context.Context, g *domain.Game) error {
	if g == nil || g.GameID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO games (
			game_id, league, game_date, season, home_team, away_team, home_score, away_score, neutral_site
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		g.GameID,
		g.League,
		g.GameDate,
		g.Season,
		g.HomeTeam,
		g.AwayTeam,
		g.HomeScore,
		g.AwayScore,
		g.NeutralSite,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// InsertBulk adds multiple games atomically. Fails entire batch on any duplicate.
func (s *GameStore) InsertBulk(ctx context.Context, games []*domain.Game) error {
	if len(games) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO games (
			game_id, league, game_date, season, home_team, away_team, home_score, away_score, neutral_site
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, g := range games {
		if g == nil || g.GameID == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			g.GameID,
			g.League,
			g.GameDate,
			g.Season,
			g.HomeTeam,
			g.AwayTeam,
			g.HomeScore,
			g.AwayScore,
			g.NeutralSite,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert game in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a game by its ID. Returns ErrNotFound if not exists.
func (s *GameStore) GetByID(ctx context.Context, gameID string) (*domain.Game, error) {
	query := `
		SELECT game_id, league, game_date, season, home_team, away_team, home_score, away_score, neutral_site, created_at
		FROM games
		WHERE game_id = $1
	`

	row := s.pool.QueryRow(ctx, query, gameID)
	g, err := scanGame(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get game by id: %w", err)
	}
	return g, nil
}

// GetByLeagueOrdered retrieves a league's full history in causal order.
func (s *GameStore) GetByLeagueOrdered(ctx context.Context, league string) ([]*domain.Game, error) {
	query := `
		SELECT game_id, league, game_date, season, home_team, away_team, home_score, away_score, neutral_site, created_at
		FROM games
		WHERE league = $1
		ORDER BY game_date ASC, game_id ASC
	`

	rows, err := s.pool.Query(ctx, query, league)
	if err != nil {
		return nil, fmt.Errorf("get games by league: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetByTeam retrieves a team's games within [start, end] in either venue role.
func (s *GameStore) GetByTeam(ctx context.Context, league, team string, start, end time.Time) ([]*domain.Game, error) {
	query := `
		SELECT game_id, league, game_date, season, home_team, away_team, home_score, away_score, neutral_site, created_at
		FROM games
		WHERE league = $1 AND (home_team = $2 OR away_team = $2)
		  AND game_date >= $3 AND game_date <= $4
		ORDER BY game_date ASC, game_id ASC
	`

	rows, err := s.pool.Query(ctx, query, league, team, start, end)
	if err != nil {
		return nil, fmt.Errorf("get games by team: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetHeadToHead retrieves games between two teams in either venue arrangement.
func (s *GameStore) GetHeadToHead(ctx context.Context, league, teamA, teamB string) ([]*domain.Game, error) {
	query := `
		SELECT game_id, league, game_date, season, home_team, away_team, home_score, away_score, neutral_site, created_at
		FROM games
		WHERE league = $1
		  AND ((home_team = $2 AND away_team = $3) OR (home_team = $3 AND away_team = $2))
		ORDER BY game_date ASC, game_id ASC
	`

	rows, err := s.pool.Query(ctx, query, league, teamA, teamB)
	if err != nil {
		return nil, fmt.Errorf("get head to head games: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// scanGame scans a single row into a Game.
func scanGame(row pgx.Row) (*domain.Game, error) {
	var g domain.Game

	err := row.Scan(
		&g.GameID,
		&g.League,
		&g.GameDate,
		&g.Season,
		&g.HomeTeam,
		&g.AwayTeam,
		&g.HomeScore,
		&g.AwayScore,
		&g.NeutralSite,
		&g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// scanGames scans multiple rows into a slice of Game.
func scanGames(rows pgx.Rows) ([]*domain.Game, error) {
	var games []*domain.Game

	for rows.Next() {
		var g domain.Game

		err := rows.Scan(
			&g.GameID,
			&g.League,
			&g.GameDate,
			&g.Season,
			&g.HomeTeam,
			&g.AwayTeam,
			&g.HomeScore,
			&g.AwayScore,
			&g.NeutralSite,
			&g.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan game row: %w", err)
		}

		games = append(games, &g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game rows: %w", err)
	}

	return games, nil
}
