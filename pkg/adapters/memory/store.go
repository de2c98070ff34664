// Package memory implements the note store as a plain in-process map.
// It exists for tests and for ephemeral runs; nothing survives the process.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/silt/pkg/core"
)

// Store keeps notes in a map guarded by a mutex. Ids are assigned from a
// monotonically increasing counter and never reused within a process.
type Store struct {
	mu     sync.Mutex
	notes  map[int64]core.Note
	nextID int64
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{notes: make(map[int64]core.Note), nextID: 1}
}

func (s *Store) Insert(_ context.Context, n core.Note) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	n.ID = id
	s.notes[id] = n.Clone()
	return id, nil
}

func (s *Store) Replace(_ context.Context, n core.Note) error {
	if n.ID <= 0 {
		return core.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[n.ID]; !ok {
		return core.ErrNotFound
	}
	s.notes[n.ID] = n.Clone()
	return nil
}

func (s *Store) Remove(_ context.Context, id int64) error {
	if id <= 0 {
		return core.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notes, id)
	return nil
}

func (s *Store) FetchOne(_ context.Context, id int64) (core.Note, error) {
	if id <= 0 {
		return core.Note{}, core.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok {
		return core.Note{}, core.ErrNotFound
	}
	return n.Clone(), nil
}

func (s *Store) FetchAll(context.Context) ([]core.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Note, 0, len(s.notes))
	for _, n := range s.notes {
		out = append(out, n.Clone())
	}
	return out, nil
}

func (s *Store) Initialize(context.Context) error { return nil }
func (s *Store) Close() error                     { return nil }

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string { return "memory" }

var _ core.Store = (*Store)(nil)
