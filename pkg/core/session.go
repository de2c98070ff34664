package core

import (
	"sync"
	"time"
)

// Session holds the mutable editing state for one application instance:
// the "currently editing" pointer, the untitled-title counter, and the
// single-slot undo buffer. It has a defined construction point (app start)
// and no lifetime beyond the instance — there are no package-level caches.
type Session struct {
	mu sync.Mutex

	// editingID is the id of the note currently open in the editor.
	// Zero means composing a new note (or nothing open).
	editingID int64

	// untitledNext is the next number to hand out for "Untitled N" titles.
	// Seeded from a store scan when composing begins.
	untitledNext int

	// Single-slot undo buffer. Overwritten by each delete, consumed by undo.
	deleted      *Note
	undoDeadline time.Time
	undoCancel   CancelFunc
}

// NewSession returns a session with nothing open and nothing to undo.
func NewSession() *Session {
	return &Session{}
}

// EditingID returns the id of the note being edited, or 0 when composing.
func (s *Session) EditingID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingID
}

// SetEditing points the session at an existing note.
func (s *Session) SetEditing(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editingID = id
}

// ClearEditing resets the editing pointer (compose mode / nothing open).
func (s *Session) ClearEditing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editingID = 0
}

// SeedUntitled primes the untitled counter from the existing note set:
// one past the highest "Untitled N" already present.
func (s *Session) SeedUntitled(notes []Note) {
	next := 0
	for _, n := range notes {
		if num := UntitledNumber(n.Title); num >= next {
			next = num + 1
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.untitledNext = next
}

// NextUntitled hands out the next placeholder title and advances the counter.
func (s *Session) NextUntitled() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	title := UntitledTitle(s.untitledNext)
	s.untitledNext++
	return title
}

// PeekUntitled returns the placeholder title the next save would use,
// without consuming it.
func (s *Session) PeekUntitled() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return UntitledTitle(s.untitledNext)
}

// BufferDeleted stores a deleted note's snapshot for undo, overwriting any
// previous snapshot, and arms the undo deadline.
func (s *Session) BufferDeleted(n Note, window time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := n.Clone()
	s.deleted = &snap
	s.undoDeadline = time.Now().Add(window)
}

// SetUndoCancel keeps the handle that withdraws the undo affordance.
// A previous handle (from an overwritten delete) is invoked, since its
// notification is now stale.
func (s *Session) SetUndoCancel(cancel CancelFunc) {
	s.mu.Lock()
	prev := s.undoCancel
	s.undoCancel = cancel
	s.mu.Unlock()
	if prev != nil {
		prev()
	}
}

// TakeDeleted consumes the undo buffer. It returns false when the buffer is
// empty or the undo window has expired; an expired snapshot is dropped so a
// stale note can never be restored without a fresh delete. Consuming the
// buffer also withdraws the undo affordance.
func (s *Session) TakeDeleted() (Note, bool) {
	s.mu.Lock()
	if s.deleted == nil {
		s.mu.Unlock()
		return Note{}, false
	}
	cancel := s.undoCancel
	s.undoCancel = nil
	if time.Now().After(s.undoDeadline) {
		s.deleted = nil
		s.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		return Note{}, false
	}
	n := s.deleted.Clone()
	s.deleted = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return n, true
}

// HasDeleted reports whether an unexpired snapshot is buffered.
func (s *Session) HasDeleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleted != nil && !time.Now().After(s.undoDeadline)
}
