package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"matchup-lab/internal/domain"
	"matchup-lab/internal/storage"
)

// GameStore is an in-memory implementation of storage.GameStore.
type GameStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Game // keyed by game_id
}

// NewGameStore creates a new in-memory game store.
func NewGameStore() *GameStore {
	return &GameStore{
		data: make(map[string]*domain.Game),
	}
}

var _ storage.GameStore = (*GameStore)(nil)

// Insert adds a new game. Returns ErrDuplicateKey if game_id exists.
func (s *GameStore) Insert(_ context.Context, g *domain.Game) error {
	if g == nil || g.GameID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[g.GameID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *g
	s.data[g.GameID] = &copy
	return nil
}

// InsertBulk adds multiple games atomically. Fails entire batch on any duplicate.
func (s *GameStore) InsertBulk(_ context.Context, games []*domain.Game) error {
	if len(games) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(games))
	for _, g := range games {
		if g == nil || g.GameID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[g.GameID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[g.GameID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[g.GameID] = struct{}{}
	}

	for _, g := range games {
		copy := *g
		s.data[g.GameID] = &copy
	}
	return nil
}

// GetByID retrieves a game by its ID. Returns ErrNotFound if not exists.
func (s *GameStore) GetByID(_ context.Context, gameID string) (*domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, exists := s.data[gameID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	copy := *g
	return &copy, nil
}

// GetByLeagueOrdered retrieves a league's full history in causal order.
func (s *GameStore) GetByLeagueOrdered(_ context.Context, league string) ([]*domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Game
	for _, g := range s.data {
		if g.League == league {
			copy := *g
			result = append(result, &copy)
		}
	}

	sortGames(result)
	return result, nil
}

// GetByTeam retrieves a team's games within [start, end], ordered by date ASC.
func (s *GameStore) GetByTeam(_ context.Context, league, team string, start, end time.Time) ([]*domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Game
	for _, g := range s.data {
		if g.League != league || (g.HomeTeam != team && g.AwayTeam != team) {
			continue
		}
		if g.GameDate.Before(start) || g.GameDate.After(end) {
			continue
		}
		copy := *g
		result = append(result, &copy)
	}

	sortGames(result)
	return result, nil
}

// GetHeadToHead retrieves games between two teams in either venue arrangement.
func (s *GameStore) GetHeadToHead(_ context.Context, league, teamA, teamB string) ([]*domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Game
	for _, g := range s.data {
		if g.League != league {
			continue
		}
		if (g.HomeTeam == teamA && g.AwayTeam == teamB) || (g.HomeTeam == teamB && g.AwayTeam == teamA) {
			copy := *g
			result = append(result, &copy)
		}
	}

	sortGames(result)
	return result, nil
}

func sortGames(games []*domain.Game) {
	sort.Slice(games, func(i, j int) bool {
		if !games[i].GameDate.Equal(games[j].GameDate) {
			return games[i].GameDate.Before(games[j].GameDate)
		}
		return games[i].GameID < games[j].GameID
	})
}
