// internal/store/memory.go
//
// In-memory implementation of the round Store interface. Active rounds are
// ephemeral by design: nothing survives a process restart, and no history
// is kept once a round is replaced.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/mbalder/starheart/internal/game"
)

// ErrNotFound is returned by Get for unknown round IDs.
var ErrNotFound = errors.New("round not found")

// Store defines the holding area for active rounds.
type Store interface {
	// Save persists or replaces a round under its ID.
	Save(ctx context.Context, r *game.Round) error

	// Get retrieves a round by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Round, error)
}

// memory is a map-based Store implementation.
type memory struct {
	mu     sync.RWMutex
	rounds map[string]*game.Round // keyed by Round.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{rounds: make(map[string]*game.Round)}
}

func (m *memory) Save(ctx context.Context, r *game.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[r.ID] = r
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rounds[id]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}
