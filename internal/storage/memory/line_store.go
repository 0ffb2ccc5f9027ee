package memory

import (
	"context"
	"sort"
	"sync"

	"matchup-lab/internal/domain"
	"matchup-lab/internal/storage"
)

type lineKey struct {
	gameID string
	source string
}

// LineStore is an in-memory implementation of storage.LineStore.
type LineStore struct {
	mu     sync.RWMutex
	data   map[lineKey]*domain.MarketLine
	nextID int64
}

// NewLineStore creates a new in-memory market line store.
func NewLineStore() *LineStore {
	return &LineStore{
		data:   make(map[lineKey]*domain.MarketLine),
		nextID: 1,
	}
}

var _ storage.LineStore = (*LineStore)(nil)

// Insert adds a new line. Returns ErrDuplicateKey on (game_id, source) collision.
func (s *LineStore) Insert(_ context.Context, l *domain.MarketLine) error {
	if l == nil || l.GameID == "" || l.Source == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := lineKey{gameID: l.GameID, source: l.Source}
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	copy := copyLine(l)
	copy.ID = s.nextID
	s.nextID++
	s.data[key] = copy
	l.ID = copy.ID
	return nil
}

// InsertBulk adds multiple lines atomically. Fails entire batch on any duplicate.
func (s *LineStore) InsertBulk(_ context.Context, lines []*domain.MarketLine) error {
	if len(lines) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[lineKey]struct{}, len(lines))
	for _, l := range lines {
		if l == nil || l.GameID == "" || l.Source == "" {
			return storage.ErrInvalidInput
		}
		key := lineKey{gameID: l.GameID, source: l.Source}
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, l := range lines {
		copy := copyLine(l)
		copy.ID = s.nextID
		s.nextID++
		s.data[lineKey{gameID: l.GameID, source: l.Source}] = copy
		l.ID = copy.ID
	}
	return nil
}

// GetByGameID retrieves all lines recorded for a game, ordered by source.
func (s *LineStore) GetByGameID(_ context.Context, gameID string) ([]*domain.MarketLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.MarketLine
	for key, l := range s.data {
		if key.gameID == gameID {
			result = append(result, copyLine(l))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Source < result[j].Source
	})
	return result, nil
}

func copyLine(l *domain.MarketLine) *domain.MarketLine {
	copy := *l
	if l.Spread != nil {
		v := *l.Spread
		copy.Spread = &v
	}
	if l.Total != nil {
		v := *l.Total
		copy.Total = &v
	}
	return &copy
}
