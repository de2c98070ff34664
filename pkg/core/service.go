package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DefaultUndoWindow is how long a deleted note can be restored.
const DefaultUndoWindow = 10 * time.Second

// Service handles the business logic for notes: the save path, delete with
// undo, pin toggling, editor session moves, and the event stream that tells
// subscribers the note set changed.
//
// All mutations go store-first, cache-second: the cache is only updated after
// the store call succeeded, so a failure leaves the previously consistent
// state visible.
type Service struct {
	store    Store
	cache    *Cache
	session  *Session
	events   *broker
	notifier Notifier
	logger   *slog.Logger

	undoWindow      time.Duration
	eventBufferSize int
}

// ServiceConfig carries the optional collaborators for a Service.
// Zero values fall back to sane defaults.
type ServiceConfig struct {
	Logger      *slog.Logger
	Notifier    Notifier
	UndoWindow  time.Duration
	EventBuffer int
}

// NewService creates a Service over the given store.
func NewService(store Store, cfg ServiceConfig) *Service {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = LogNotifier{Logger: cfg.Logger}
	}
	if cfg.UndoWindow <= 0 {
		cfg.UndoWindow = DefaultUndoWindow
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 100
	}
	return &Service{
		store:           store,
		cache:           NewCache(),
		session:         NewSession(),
		events:          newBroker(cfg.EventBuffer),
		notifier:        cfg.Notifier,
		logger:          cfg.Logger,
		undoWindow:      cfg.UndoWindow,
		eventBufferSize: cfg.EventBuffer,
	}
}

// Reload rebuilds the cache from a full store scan and re-seeds the untitled
// counter. Called once at startup and available for explicit refreshes.
func (s *Service) Reload(ctx context.Context) error {
	notes, err := s.store.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	s.cache.SetAll(notes)
	s.session.SeedUntitled(notes)
	s.events.publish(EventReloaded, 0)
	return nil
}

// List returns all notes in display order (date descending).
func (s *Service) List() []Note {
	return s.cache.All()
}

// Get returns a note by id, from the cache when possible.
func (s *Service) Get(ctx context.Context, id int64) (Note, error) {
	if n, ok := s.cache.Get(id); ok {
		return n, nil
	}
	return s.store.FetchOne(ctx, id)
}

// SaveNote persists one snapshot against an explicit target id.
// target 0 means "create": the store assigns a fresh id, and the session's
// editing pointer is advanced to it only if the user is still composing.
// A positive target overwrites that record even if the session has since
// moved to a different note — the write lands on its original target and the
// new note's state is never clobbered.
func (s *Service) SaveNote(ctx context.Context, target int64, title, content string, tags []string, category Category) (Note, error) {
	n := Note{
		ID:       target,
		Title:    strings.TrimSpace(title),
		Content:  content,
		Tags:     NormalizeTagList(tags),
		Category: category,
		Date:     Today(),
	}
	if n.Title == "" {
		n.Title = s.session.NextUntitled()
	}
	if !ValidCategory(n.Category) {
		n.Category = InferCategory(n.Tags)
	}

	if target == 0 {
		id, err := s.store.Insert(ctx, n)
		if err != nil {
			s.fail("Failed to save note", err)
			return Note{}, err
		}
		n.ID = id
		s.cache.Upsert(n)
		// Only adopt the new id if the user is still composing; a mid-save
		// switch to another note must not be overridden.
		if s.session.EditingID() == 0 {
			s.session.SetEditing(id)
		}
		s.events.publish(EventCreated, id)
		s.logger.Debug("note created", "id", id, "title", n.Title)
		return n, nil
	}

	// Keep the pinned flag; the editor snapshot does not carry it.
	if prev, ok := s.cache.Get(target); ok {
		n.Pinned = prev.Pinned
	}
	if err := s.store.Replace(ctx, n); err != nil {
		s.fail("Failed to save note", err)
		return Note{}, err
	}
	s.cache.Upsert(n)
	s.events.publish(EventUpdated, target)
	s.logger.Debug("note updated", "id", target)
	return n, nil
}

// OpenForEdit loads a note and points the session at it.
func (s *Service) OpenForEdit(ctx context.Context, id int64) (Note, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return Note{}, err
	}
	s.session.SetEditing(id)
	return n, nil
}

// BeginCompose clears the editing pointer and returns the placeholder title
// for the next new note ("Untitled N", one past the highest already stored).
// The number is not consumed until a save actually falls back to it.
func (s *Service) BeginCompose() string {
	s.session.ClearEditing()
	s.session.SeedUntitled(s.cache.All())
	return s.session.PeekUntitled()
}

// EditingID exposes the session's current editing pointer (0 = composing).
func (s *Service) EditingID() int64 {
	return s.session.EditingID()
}

// Current returns the note currently being edited.
// ErrNoSelection when nothing is open.
func (s *Service) Current(ctx context.Context) (Note, error) {
	id := s.session.EditingID()
	if id == 0 {
		return Note{}, ErrNoSelection
	}
	return s.Get(ctx, id)
}

// Delete removes a note, buffers its snapshot for undo, and presents the
// time-bounded undo affordance through the notifier.
func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.store.FetchOne(ctx, id)
	if err != nil {
		s.fail("Failed to delete note", err)
		return err
	}
	if err := s.store.Remove(ctx, id); err != nil {
		s.fail("Failed to delete note", err)
		return err
	}
	s.cache.Remove(id)
	if s.session.EditingID() == id {
		s.session.ClearEditing()
	}
	s.session.BufferDeleted(n, s.undoWindow)
	s.events.publish(EventDeleted, id)
	cancel := s.notifier.Notify(fmt.Sprintf("Deleted %q — undo available", n.Title), SeverityInfo, s.undoWindow)
	s.session.SetUndoCancel(cancel)
	s.logger.Debug("note deleted", "id", id)
	return nil
}

// Undo restores the last deleted note under a fresh id. The old id is not
// reused. With nothing buffered (or the window expired) it returns
// ErrUndoEmpty and changes nothing.
func (s *Service) Undo(ctx context.Context) (Note, error) {
	n, ok := s.session.TakeDeleted()
	if !ok {
		return Note{}, ErrUndoEmpty
	}
	n.ID = 0
	id, err := s.store.Insert(ctx, n)
	if err != nil {
		s.fail("Failed to restore note", err)
		return Note{}, err
	}
	n.ID = id
	s.cache.Upsert(n)
	s.events.publish(EventRestored, id)
	s.notifier.Notify(fmt.Sprintf("Restored %q", n.Title), SeveritySuccess, 3*time.Second)
	return n, nil
}

// TogglePin flips a note's pinned flag.
func (s *Service) TogglePin(ctx context.Context, id int64) (Note, error) {
	n, err := s.store.FetchOne(ctx, id)
	if err != nil {
		s.fail("Failed to update note", err)
		return Note{}, err
	}
	n.Pinned = !n.Pinned
	if err := s.store.Replace(ctx, n); err != nil {
		s.fail("Failed to update note", err)
		return Note{}, err
	}
	s.cache.Upsert(n)
	s.events.publish(EventPinned, id)
	return n, nil
}

// Import inserts a note parsed from an external file. Imports always create
// a new record; the incoming id, if any, is discarded.
func (s *Service) Import(ctx context.Context, n Note) (Note, error) {
	n.ID = 0
	if n.Date == "" {
		n.Date = Today()
	}
	if !ValidCategory(n.Category) {
		n.Category = InferCategory(n.Tags)
	}
	id, err := s.store.Insert(ctx, n)
	if err != nil {
		s.fail("Failed to import note", err)
		return Note{}, err
	}
	n.ID = id
	s.cache.Upsert(n)
	s.events.publish(EventImported, id)
	return n, nil
}

// Subscribe returns a channel of change events. Slow subscribers drop events
// rather than blocking mutations.
func (s *Service) Subscribe() <-chan Event {
	return s.events.subscribe()
}

// Close releases the event stream and the underlying store.
func (s *Service) Close() error {
	s.events.close()
	return s.store.Close()
}

func (s *Service) fail(msg string, err error) {
	s.logger.Error(msg, "error", err)
	var se *StorageError
	if errors.As(err, &se) {
		msg = fmt.Sprintf("%s: %v", msg, se.Cause)
	}
	s.notifier.Notify(msg, SeverityError, 5*time.Second)
}
