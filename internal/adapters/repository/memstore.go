package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/okian/talker/internal/domain/model"
)

// MemoryStore is an in-memory Store. It copies on the way in and out so
// callers never share its backing array.
type MemoryStore struct {
	mu      sync.RWMutex
	talkers []model.Talker
	loadErr error
	saveErr error
}

// NewMemoryStore returns a store seeded with talkers.
func NewMemoryStore(talkers ...model.Talker) *MemoryStore {
	return &MemoryStore{talkers: slices.Clone(talkers)}
}

// Load returns a copy of the stored talkers.
func (s *MemoryStore) Load(ctx context.Context) ([]model.Talker, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]model.Talker, len(s.talkers))
	copy(out, s.talkers)
	return out, nil
}

// Save replaces the stored talkers with a copy of talkers.
func (s *MemoryStore) Save(ctx context.Context, talkers []model.Talker) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.talkers = slices.Clone(talkers)
	return nil
}

// FailWith makes subsequent Load and Save calls return the given errors.
// Nil clears the failure.
func (s *MemoryStore) FailWith(loadErr, saveErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = loadErr
	s.saveErr = saveErr
}
