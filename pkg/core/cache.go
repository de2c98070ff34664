package core

import (
	"sort"
	"sync"
)

// Cache is the in-memory mirror of all stored notes, ordered by date
// descending (newest first, higher id winning date ties). It backs list
// rendering and filtering; it is never persisted — it is rebuilt with SetAll
// from a full Store scan at application start.
//
// Every mutation leaves the cache self-consistent: no duplicate ids, ordering
// invariant intact, even when mutations arrive back-to-back with no reload.
type Cache struct {
	mu    sync.RWMutex
	notes []Note
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// SetAll replaces the cache wholesale (used after a full reload).
func (c *Cache) SetAll(notes []Note) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notes = make([]Note, 0, len(notes))
	seen := make(map[int64]bool, len(notes))
	for _, n := range notes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		c.notes = append(c.notes, n.Clone())
	}
	c.sortLocked()
}

// Upsert replaces the entry with the note's id, or appends it when absent.
// The ordering invariant is restored before returning.
func (c *Cache) Upsert(n Note) {
	c.mu.Lock()
	defer c.mu.Unlock()

	replaced := false
	for i := range c.notes {
		if c.notes[i].ID == n.ID {
			c.notes[i] = n.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		c.notes = append(c.notes, n.Clone())
	}
	c.sortLocked()
}

// Remove drops the matching entry; no-op if absent.
func (c *Cache) Remove(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.notes {
		if c.notes[i].ID == id {
			c.notes = append(c.notes[:i], c.notes[i+1:]...)
			return
		}
	}
}

// Get retrieves a note by id.
func (c *Cache) Get(id int64) (Note, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, n := range c.notes {
		if n.ID == id {
			return n.Clone(), true
		}
	}
	return Note{}, false
}

// All returns a read-only snapshot of the cache in display order.
func (c *Cache) All() []Note {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Note, len(c.notes))
	for i, n := range c.notes {
		out[i] = n.Clone()
	}
	return out
}

// Len returns the number of cached notes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.notes)
}

func (c *Cache) sortLocked() {
	sort.SliceStable(c.notes, func(i, j int) bool {
		if c.notes[i].Date != c.notes[j].Date {
			return c.notes[i].Date > c.notes[j].Date
		}
		return c.notes[i].ID > c.notes[j].ID
	})
}
