// Package repository holds the latest published board for readers outside the refresh loop.
package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/okian/poolwatch/internal/domain/model"
)

// Board is the published outcome of the last successful cycle.
type Board struct {
	CycleID     string
	Snapshot    model.Snapshot
	NewEntrants []string
	Active      bool // false when rendered outside the active window
	Limit       int
	UpdatedAt   time.Time
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	c := b
	c.Snapshot = b.Snapshot.Clone()
	c.NewEntrants = slices.Clone(b.NewEntrants)
	return c
}

// Status describes the store beyond the board itself.
type Status struct {
	Cycles      int
	Failures    int
	LastError   string
	LastErrorAt time.Time
}

// Store provides read/write access to the latest board.
type Store interface {
	// Publish replaces the board wholesale.
	Publish(ctx context.Context, b Board) error
	// RecordFailure notes a failed cycle without touching the board.
	RecordFailure(ctx context.Context, at time.Time, err error)
	// Latest returns a copy of the current board or ErrNoBoard.
	Latest(ctx context.Context) (Board, error)
	// Team returns the named team from the current board or ErrNotFound.
	Team(ctx context.Context, name string) (model.Team, error)
	// Status returns cycle counters and the last failure.
	Status(ctx context.Context) Status
}

// BoardStore implements Store in memory.
type BoardStore struct {
	mu     sync.RWMutex
	board  *Board
	status Status
}

// NewBoardStore creates an empty store.
func NewBoardStore() *BoardStore {
	return &BoardStore{}
}

// Publish stores a copy of b.
func (s *BoardStore) Publish(_ context.Context, b Board) error {
	c := b.Clone()
	s.mu.Lock()
	s.board = &c
	s.status.Cycles++
	s.mu.Unlock()
	return nil
}

// RecordFailure keeps the last error for display.
func (s *BoardStore) RecordFailure(_ context.Context, at time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Failures++
	s.status.LastErrorAt = at
	if err != nil {
		s.status.LastError = err.Error()
	}
}

// Latest returns a copy of the published board.
func (s *BoardStore) Latest(_ context.Context) (Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.board == nil {
		return Board{}, ErrNoBoard
	}
	return s.board.Clone(), nil
}

// Team looks a team up by exact name.
func (s *BoardStore) Team(_ context.Context, name string) (model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.board == nil {
		return model.Team{}, ErrNoBoard
	}
	for _, t := range s.board.Snapshot.Teams {
		if t.Name == name {
			return t.Clone(), nil
		}
	}
	return model.Team{}, ErrNotFound
}

// Status returns the store counters.
func (s *BoardStore) Status(_ context.Context) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}
