package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store with injectable failures.
type fakeStore struct {
	mu     sync.Mutex
	notes  map[int64]Note
	nextID int64

	failInsert  error
	failReplace error
}

func newFakeStore() *fakeStore {
	return &fakeStore{notes: make(map[int64]Note), nextID: 1}
}

func (f *fakeStore) Insert(_ context.Context, n Note) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert != nil {
		return 0, NewStorageError("insert", f.failInsert)
	}
	id := f.nextID
	f.nextID++
	n.ID = id
	f.notes[id] = n.Clone()
	return id, nil
}

func (f *fakeStore) Replace(_ context.Context, n Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n.ID <= 0 {
		return ErrInvalidID
	}
	if f.failReplace != nil {
		return NewStorageError("replace", f.failReplace)
	}
	f.notes[n.ID] = n.Clone()
	return nil
}

func (f *fakeStore) Remove(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id <= 0 {
		return ErrInvalidID
	}
	delete(f.notes, id)
	return nil
}

func (f *fakeStore) FetchOne(_ context.Context, id int64) (Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id <= 0 {
		return Note{}, ErrInvalidID
	}
	n, ok := f.notes[id]
	if !ok {
		return Note{}, ErrNotFound
	}
	return n.Clone(), nil
}

func (f *fakeStore) FetchAll(_ context.Context) ([]Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Note, 0, len(f.notes))
	for _, n := range f.notes {
		out = append(out, n.Clone())
	}
	return out, nil
}

func (f *fakeStore) Initialize(context.Context) error { return nil }
func (f *fakeStore) Close() error                     { return nil }

// recordingNotifier captures notifications and counts how many of the
// returned cancel handles were invoked.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	canceled int
}

func (r *recordingNotifier) Notify(msg string, _ Severity, _ time.Duration) CancelFunc {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.canceled++
	}
}

func (r *recordingNotifier) cancels() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canceled
}

func (r *recordingNotifier) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	svc := NewService(store, ServiceConfig{UndoWindow: time.Minute})
	require.NoError(t, svc.Reload(context.Background()))
	return svc, store
}

func TestService_SaveNote(t *testing.T) {
	ctx := context.Background()

	t.Run("Create Assigns Id and Adopts It", func(t *testing.T) {
		svc, _ := newTestService(t)

		n, err := svc.SaveNote(ctx, 0, "Plan", "body", []string{"work", "urgent"}, "")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n.ID)
		assert.Equal(t, CategoryWork, n.Category)
		assert.Equal(t, n.ID, svc.EditingID())

		got, ok := svc.cache.Get(n.ID)
		require.True(t, ok)
		assert.Equal(t, "Plan", got.Title)
	})

	t.Run("Empty Title Falls Back To Untitled", func(t *testing.T) {
		svc, _ := newTestService(t)

		n, err := svc.SaveNote(ctx, 0, "  ", "x", nil, "")
		require.NoError(t, err)
		assert.Equal(t, "Untitled 0", n.Title)

		svc.BeginCompose()
		n2, err := svc.SaveNote(ctx, 0, "", "y", nil, "")
		require.NoError(t, err)
		assert.Equal(t, "Untitled 1", n2.Title)
	})

	t.Run("Update Keeps Pinned Flag", func(t *testing.T) {
		svc, _ := newTestService(t)
		n, err := svc.SaveNote(ctx, 0, "A", "v1", nil, "")
		require.NoError(t, err)
		_, err = svc.TogglePin(ctx, n.ID)
		require.NoError(t, err)

		updated, err := svc.SaveNote(ctx, n.ID, "A", "v2", nil, "")
		require.NoError(t, err)
		assert.True(t, updated.Pinned)
		assert.Equal(t, "v2", updated.Content)
	})

	t.Run("Write Lands On Original Target After Switch", func(t *testing.T) {
		svc, store := newTestService(t)
		a, err := svc.SaveNote(ctx, 0, "A", "old", nil, "")
		require.NoError(t, err)
		b, err := svc.SaveNote(ctx, 0, "B", "b", nil, "")
		require.NoError(t, err)
		_, err = svc.OpenForEdit(ctx, b.ID)
		require.NoError(t, err)

		// A save captured before the switch still writes A's row.
		_, err = svc.SaveNote(ctx, a.ID, "A", "new", nil, "")
		require.NoError(t, err)

		got, err := store.FetchOne(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "new", got.Content)
		assert.Equal(t, b.ID, svc.EditingID(), "editing pointer must not move")
	})

	t.Run("Create Does Not Adopt Id After Switch", func(t *testing.T) {
		svc, _ := newTestService(t)
		b, err := svc.SaveNote(ctx, 0, "B", "b", nil, "")
		require.NoError(t, err)

		// A create that completes while another note is open leaves the
		// pointer alone.
		_, err = svc.SaveNote(ctx, 0, "late", "x", nil, "")
		require.NoError(t, err)
		assert.Equal(t, b.ID, svc.EditingID())
	})

	t.Run("Insert Failure Leaves State Untouched", func(t *testing.T) {
		svc, store := newTestService(t)
		store.failInsert = errors.New("disk full")

		_, err := svc.SaveNote(ctx, 0, "X", "x", nil, "")
		var se *StorageError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, 0, svc.cache.Len())
		assert.Equal(t, int64(0), svc.EditingID())
	})
}

func TestService_DeleteUndo(t *testing.T) {
	ctx := context.Background()

	t.Run("Undo Restores Under New Id", func(t *testing.T) {
		svc, _ := newTestService(t)
		n, err := svc.SaveNote(ctx, 0, "Keep", "body", []string{"work"}, "")
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, n.ID))
		assert.Equal(t, 0, svc.cache.Len())
		assert.Equal(t, int64(0), svc.EditingID(), "deleting the open note clears the pointer")

		restored, err := svc.Undo(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, n.ID, restored.ID)
		assert.Equal(t, n.Title, restored.Title)
		assert.Equal(t, n.Content, restored.Content)
		assert.Equal(t, n.Tags, restored.Tags)
		assert.Equal(t, n.Category, restored.Category)
	})

	t.Run("Second Undo Is ErrUndoEmpty", func(t *testing.T) {
		svc, _ := newTestService(t)
		n, err := svc.SaveNote(ctx, 0, "Keep", "body", nil, "")
		require.NoError(t, err)
		require.NoError(t, svc.Delete(ctx, n.ID))

		_, err = svc.Undo(ctx)
		require.NoError(t, err)
		_, err = svc.Undo(ctx)
		assert.ErrorIs(t, err, ErrUndoEmpty)
	})

	t.Run("Delete Missing Note", func(t *testing.T) {
		svc, _ := newTestService(t)
		err := svc.Delete(ctx, 42)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Undo Withdraws The Affordance", func(t *testing.T) {
		notifier := &recordingNotifier{}
		svc := NewService(newFakeStore(), ServiceConfig{Notifier: notifier, UndoWindow: time.Minute})
		require.NoError(t, svc.Reload(ctx))

		n, err := svc.SaveNote(ctx, 0, "Keep", "body", nil, "")
		require.NoError(t, err)
		require.NoError(t, svc.Delete(ctx, n.ID))
		assert.Equal(t, 0, notifier.cancels(), "the undo toast stays up until consumed")

		_, err = svc.Undo(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, notifier.cancels(), "consuming the buffer cancels the undo toast")
	})

	t.Run("Next Delete Withdraws The Previous Affordance", func(t *testing.T) {
		notifier := &recordingNotifier{}
		svc := NewService(newFakeStore(), ServiceConfig{Notifier: notifier, UndoWindow: time.Minute})
		require.NoError(t, svc.Reload(ctx))

		a, err := svc.SaveNote(ctx, 0, "A", "x", nil, "")
		require.NoError(t, err)
		b, err := svc.SaveNote(ctx, 0, "B", "y", nil, "")
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, a.ID))
		require.NoError(t, svc.Delete(ctx, b.ID))
		assert.Equal(t, 1, notifier.cancels(), "overwriting the buffer cancels the stale toast")

		// Only B is restorable; A's toast was withdrawn with its slot.
		restored, err := svc.Undo(ctx)
		require.NoError(t, err)
		assert.Equal(t, "B", restored.Title)
	})
}

func TestService_Events(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	events := svc.Subscribe()

	n, err := svc.SaveNote(ctx, 0, "A", "x", nil, "")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, n.ID))

	e := <-events
	assert.Equal(t, EventCreated, e.Type)
	assert.Equal(t, n.ID, e.ID)
	e = <-events
	assert.Equal(t, EventDeleted, e.Type)
}

func TestService_TogglePin(t *testing.T) {
	ctx := context.Background()

	t.Run("Flips The Flag", func(t *testing.T) {
		svc, _ := newTestService(t)
		n, err := svc.SaveNote(ctx, 0, "A", "x", nil, "")
		require.NoError(t, err)

		pinned, err := svc.TogglePin(ctx, n.ID)
		require.NoError(t, err)
		assert.True(t, pinned.Pinned)

		unpinned, err := svc.TogglePin(ctx, n.ID)
		require.NoError(t, err)
		assert.False(t, unpinned.Pinned)
	})

	t.Run("Missing Note Surfaces Through The Notifier", func(t *testing.T) {
		notifier := &recordingNotifier{}
		svc := NewService(newFakeStore(), ServiceConfig{Notifier: notifier})
		require.NoError(t, svc.Reload(ctx))

		_, err := svc.TogglePin(ctx, 42)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, notifier.last(), "Failed to update note")
	})
}

func TestService_Current(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Current(ctx)
	assert.ErrorIs(t, err, ErrNoSelection)

	n, err := svc.SaveNote(ctx, 0, "A", "x", nil, "")
	require.NoError(t, err)

	cur, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, n.ID, cur.ID)
}
