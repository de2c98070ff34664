package platform

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/silt/pkg/adapters/memory"
	"github.com/aretw0/silt/pkg/autosave"
)

func TestNew_SqliteLifecycle(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "notes.db")

	app, err := New(dbPath,
		WithDebounceWindow(10*time.Millisecond),
		WithSaveTimeout(time.Second),
	)
	require.NoError(t, err)

	// Edit flows through the coordinator into the store and the cache.
	app.Coordinator.Changed(autosave.Snapshot{Title: "First", Content: "hello", Tags: []string{"work"}})
	require.NoError(t, app.Coordinator.Flush(ctx))

	notes := app.Service.List()
	require.Len(t, notes, 1)
	assert.Equal(t, "First", notes[0].Title)
	require.NoError(t, app.Close(ctx))

	// The same database reopened still holds the note.
	app2, err := New(dbPath)
	require.NoError(t, err)
	defer app2.Close(ctx)

	notes = app2.Service.List()
	require.Len(t, notes, 1)
	assert.Equal(t, "hello", notes[0].Content)
}

func TestNew_InjectedStore(t *testing.T) {
	ctx := context.Background()
	app, err := New("", WithStore(memory.New()))
	require.NoError(t, err)
	defer app.Close(ctx)

	n, err := app.Service.SaveNote(ctx, 0, "injected", "x", nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.ID)
}

func TestNew_MemoryAdapter(t *testing.T) {
	ctx := context.Background()
	app, err := New("", WithAdapter("memory"))
	require.NoError(t, err)
	defer app.Close(ctx)

	_, err = app.Service.SaveNote(ctx, 0, "ephemeral", "x", nil, "")
	require.NoError(t, err)
	assert.Len(t, app.Service.List(), 1)
}

func TestNew_UnknownAdapter(t *testing.T) {
	_, err := New("", WithAdapter("s3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown adapter")
}

func TestFindDatabase(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	_, err := FindDatabase(nested)
	assert.Error(t, err, "no database anywhere up the tree")

	require.NoError(t, os.WriteFile(filepath.Join(root, DatabaseName), []byte{}, 0644))
	found, err := FindDatabase(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, DatabaseName), found)
}
