package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"matchup-lab/internal/domain"
	"matchup-lab/internal/lookup"
	"matchup-lab/internal/storage"
)

// RatingStore is an in-memory implementation of storage.RatingStore.
type RatingStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.TeamRating // keyed by league, as_of ASC within a team
}

// NewRatingStore creates a new in-memory rating store.
func NewRatingStore() *RatingStore {
	return &RatingStore{
		data: make(map[string][]*domain.TeamRating),
	}
}

var _ storage.RatingStore = (*RatingStore)(nil)

// ReplaceLeague swaps the entire snapshot set for a league atomically.
func (s *RatingStore) ReplaceLeague(_ context.Context, league string, snapshots []*domain.TeamRating) error {
	if league == "" {
		return storage.ErrInvalidInput
	}
	for _, r := range snapshots {
		if r == nil || r.Team == "" || r.AsOf.IsZero() {
			return storage.ErrInvalidInput
		}
		if r.League != league {
			return storage.ErrInvalidInput
		}
	}

	replacement := make([]*domain.TeamRating, len(snapshots))
	for i, r := range snapshots {
		copy := *r
		replacement[i] = &copy
	}
	sortRatings(replacement)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[league] = replacement
	return nil
}

// GetTeamHistory retrieves a team's rating snapshots ordered by as_of ASC.
func (s *RatingStore) GetTeamHistory(_ context.Context, league, team string) ([]*domain.TeamRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TeamRating
	for _, r := range s.data[league] {
		if r.Team == team {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

// CurrentRating returns the team's most recent rating at or before asOf.
// Teams with no snapshot in range get the base rating, never an error.
func (s *RatingStore) CurrentRating(_ context.Context, league, team string, asOf time.Time) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var history []*domain.TeamRating
	for _, r := range s.data[league] {
		if r.Team == team {
			history = append(history, r)
		}
	}
	return lookup.RatingAt(asOf, history), nil
}

func sortRatings(ratings []*domain.TeamRating) {
	sort.Slice(ratings, func(i, j int) bool {
		if !ratings[i].AsOf.Equal(ratings[j].AsOf) {
			return ratings[i].AsOf.Before(ratings[j].AsOf)
		}
		return ratings[i].Team < ratings[j].Team
	})
}
