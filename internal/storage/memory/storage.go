package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/Kimen6931/BlockLocker/internal/model"
	"github.com/Kimen6931/BlockLocker/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	// signs per protection, in attachment order
	protections map[model.ProtectionID][]model.SignEntry
	saveCount   int
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		protections: make(map[model.ProtectionID][]model.SignEntry),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Protection operations

func (s *Storage) SaveProtection(ctx context.Context, protection *model.Protection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.protections[protection.ID] = slices.Clone(protection.Signs)
	return nil
}

func (s *Storage) GetProtection(ctx context.Context, id model.ProtectionID) (*model.Protection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	signs, ok := s.protections[id]
	if !ok {
		return nil, model.ErrProtectionNotFound
	}
	return &model.Protection{ID: id, Signs: slices.Clone(signs)}, nil
}

func (s *Storage) DeleteProtection(ctx context.Context, id model.ProtectionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.protections, id)
	return nil
}

// Sign operations

func (s *Storage) SaveSign(ctx context.Context, id model.ProtectionID, sign model.SignEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCount++

	signs := s.protections[id]
	for i := range signs {
		if signs[i].Location == sign.Location {
			signs[i] = sign
			return nil
		}
	}
	s.protections[id] = append(signs, sign)
	return nil
}

func (s *Storage) GetSign(ctx context.Context, id model.ProtectionID, loc model.Location) (model.SignEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sign := range s.protections[id] {
		if sign.Location == loc {
			return sign, nil
		}
	}
	return model.SignEntry{}, model.ErrSignNotFound
}

// SaveSignCount returns how many times SaveSign has been called (useful for testing)
func (s *Storage) SaveSignCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveCount
}
