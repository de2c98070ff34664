package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/silt/pkg/core"
)

// options holds the internal configuration for the Silt service.
type options struct {
	store       core.Store
	logger      *slog.Logger
	notifier    core.Notifier
	adapter     string
	debounce    time.Duration
	saveTimeout time.Duration
	undoWindow  time.Duration
	eventBuffer int
}

// Option defines a functional option for configuring Silt.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		store:   nil,
		logger:  nil,
		adapter: "sqlite",
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore allows injecting a custom storage adapter (e.g. mock, remote).
// If provided, the default sqlite adapter will be skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter allows specifying the storage adapter to use by name
// ("sqlite" or "memory"). Defaults to "sqlite".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithNotifier sets the notification sink for user-facing messages.
// Defaults to logging through the configured logger.
func WithNotifier(n core.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithDebounceWindow sets the autosave debounce window.
// Zero means default (1s).
func WithDebounceWindow(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithSaveTimeout sets the in-flight save guard window.
// Zero means default (5s).
func WithSaveTimeout(d time.Duration) Option {
	return func(o *options) {
		o.saveTimeout = d
	}
}

// WithUndoWindow sets how long a deleted note remains restorable.
// Zero means default (10s).
func WithUndoWindow(d time.Duration) Option {
	return func(o *options) {
		o.undoWindow = d
	}
}

// WithEventBuffer allows specifying the size of the event broker buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}
