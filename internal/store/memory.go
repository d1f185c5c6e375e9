package store

import (
	"context"
	"sync"

	"github.com/jonathan/resume-builder/internal/types"
)

// MemoryStore keeps a deep copy of the last saved state in process.
type MemoryStore struct {
	mu    sync.Mutex
	state *types.State
	saves int
	err   error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Repository.
func (s *MemoryStore) Load(_ context.Context) (*types.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.state == nil {
		return nil, nil
	}
	st := s.state.Clone()
	return &st, nil
}

// Save implements Repository.
func (s *MemoryStore) Save(_ context.Context, state types.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	st := state.Clone()
	s.state = &st
	s.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// FailWith makes every later Load and Save return err. A nil err clears it.
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}
