package storage

import (
	"context"
	"time"

	"matchup-lab/internal/domain"
)

// GameStore provides access to game-result storage.
type GameStore interface {
	// Insert adds a new game. Returns ErrDuplicateKey if game_id exists.
	Insert(ctx context.Context, g *domain.Game) error

	// InsertBulk adds multiple games atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, games []*domain.Game) error

	// GetByID retrieves a game by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, gameID string) (*domain.Game, error)

	// GetByLeagueOrdered retrieves a league's full history ordered by
	// date ASC, game_id ASC, the causal order the rating fold requires.
	GetByLeagueOrdered(ctx context.Context, league string) ([]*domain.Game, error)

	// GetByTeam retrieves a team's games (home or away) within [start, end],
	// ordered by date ASC.
	GetByTeam(ctx context.Context, league, team string, start, end time.Time) ([]*domain.Game, error)

	// GetHeadToHead retrieves games between two teams in either venue
	// arrangement, ordered by date ASC.
	GetHeadToHead(ctx context.Context, league, teamA, teamB string) ([]*domain.Game, error)
}

// LineStore provides access to market-line storage.
type LineStore interface {
	// Insert adds a new line. Returns ErrDuplicateKey if (game_id, source) exists.
	Insert(ctx context.Context, l *domain.MarketLine) error

	// InsertBulk adds multiple lines atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, lines []*domain.MarketLine) error

	// GetByGameID retrieves all lines for a game.
	GetByGameID(ctx context.Context, gameID string) ([]*domain.MarketLine, error)
}

// RatingStore provides access to rating-snapshot storage.
type RatingStore interface {
	// ReplaceLeague atomically swaps a league's entire snapshot set.
	// Concurrent readers see either the old set or the new set, never a
	// mixture; on failure the old set stays fully authoritative.
	ReplaceLeague(ctx context.Context, league string, snapshots []*domain.TeamRating) error

	// GetTeamHistory retrieves a team's snapshots ordered by as_of ASC.
	GetTeamHistory(ctx context.Context, league, team string) ([]*domain.TeamRating, error)

	// CurrentRating returns the most recent rating at or before asOf,
	// or domain.BaseRating when the team has no snapshot, never ErrNotFound.
	CurrentRating(ctx context.Context, league, team string, asOf time.Time) (float64, error)
}

// PickStore provides access to produced-pick storage for later grading.
type PickStore interface {
	// Insert adds a new pick. Returns ErrDuplicateKey if pick_id exists.
	Insert(ctx context.Context, p *domain.Pick) error

	// InsertBulk adds multiple picks atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, picks []*domain.Pick) error

	// GetByID retrieves a pick by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, pickID string) (*domain.Pick, error)

	// GetByLeague retrieves all picks for a league ordered by game date ASC.
	GetByLeague(ctx context.Context, league string) ([]*domain.Pick, error)
}

// RatingHistoryStore archives every published snapshot set for
// longitudinal analysis. Unlike RatingStore it is append-only: recomputes
// add a new version instead of replacing rows.
type RatingHistoryStore interface {
	// AppendVersion archives one published snapshot set under a version tag.
	AppendVersion(ctx context.Context, league string, version int64, snapshots []*domain.TeamRating) error

	// GetTeamRange retrieves archived points for a team within [start, end],
	// across versions, ordered by as_of ASC, version ASC.
	GetTeamRange(ctx context.Context, league, team string, start, end time.Time) ([]*domain.TeamRating, error)
}
