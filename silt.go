package silt

import (
	"log/slog"
	"time"

	"github.com/aretw0/silt/internal/platform"
	"github.com/aretw0/silt/pkg/core"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// App bundles a wired service and its autosave coordinator.
type App = platform.App

// --- Configuration ---

// Option defines a functional option for configuring Silt.
type Option = platform.Option

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore allows injecting a custom storage adapter.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithAdapter allows specifying the storage adapter to use by name
// ("sqlite" or "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithNotifier sets the notification sink for user-facing messages.
func WithNotifier(n core.Notifier) Option {
	return platform.WithNotifier(n)
}

// WithDebounceWindow sets the autosave debounce window.
func WithDebounceWindow(d time.Duration) Option {
	return platform.WithDebounceWindow(d)
}

// WithSaveTimeout sets the in-flight save guard window.
func WithSaveTimeout(d time.Duration) Option {
	return platform.WithSaveTimeout(d)
}

// WithUndoWindow sets how long a deleted note remains restorable.
func WithUndoWindow(d time.Duration) Option {
	return platform.WithUndoWindow(d)
}

// WithEventBuffer allows specifying the size of the event broker buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// --- Factory ---

// New creates a new Silt App over the given storage URI
// (a database path, or ":memory:").
func New(uri string, opts ...Option) (*App, error) {
	return platform.New(uri, opts...)
}

// Init initializes a store explicitly, without wiring a service.
func Init(uri string, opts ...Option) (core.Store, error) {
	return platform.Init(uri, opts...)
}

// --- Utils ---

// FindDatabase recursively looks upwards for an existing workspace database.
func FindDatabase(startDir string) (string, error) {
	return platform.FindDatabase(startDir)
}

// DatabaseName is the default database file name.
const DatabaseName = platform.DatabaseName
