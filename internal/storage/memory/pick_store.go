package memory

import (
	"context"
	"sort"
	"sync"

	"matchup-lab/internal/domain"
	"matchup-lab/internal/storage"
)

// PickStore is an in-memory implementation of storage.PickStore.
type PickStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Pick // keyed by pick_id
}

// NewPickStore creates a new in-memory pick store.
func NewPickStore() *PickStore {
	return &PickStore{
		data: make(map[string]*domain.Pick),
	}
}

var _ storage.PickStore = (*PickStore)(nil)

// Insert adds a new pick. Returns ErrDuplicateKey if pick_id exists.
func (s *PickStore) Insert(_ context.Context, p *domain.Pick) error {
	if p == nil || p.PickID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.PickID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *p
	s.data[p.PickID] = &copy
	return nil
}

// InsertBulk adds multiple picks atomically. Fails entire batch on any duplicate.
func (s *PickStore) InsertBulk(_ context.Context, picks []*domain.Pick) error {
	if len(picks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(picks))
	for _, p := range picks {
		if p == nil || p.PickID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[p.PickID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[p.PickID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[p.PickID] = struct{}{}
	}

	for _, p := range picks {
		copy := *p
		s.data[p.PickID] = &copy
	}
	return nil
}

// GetByID retrieves a pick by its ID. Returns ErrNotFound if not exists.
func (s *PickStore) GetByID(_ context.Context, pickID string) (*domain.Pick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[pickID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

// GetByLeague retrieves a league's picks ordered by game date ASC.
func (s *PickStore) GetByLeague(_ context.Context, league string) ([]*domain.Pick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Pick
	for _, p := range s.data {
		if p.League == league {
			copy := *p
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].GameDate.Equal(result[j].GameDate) {
			return result[i].GameDate.Before(result[j].GameDate)
		}
		return result[i].PickID < result[j].PickID
	})
	return result, nil
}
