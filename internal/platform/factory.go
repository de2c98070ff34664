package platform

import (
	"context"

	"github.com/aretw0/silt/pkg/autosave"
	"github.com/aretw0/silt/pkg/core"
)

// App bundles the wired components of one application instance:
// the domain service and the autosave coordinator bound to it.
type App struct {
	Service     *core.Service
	Coordinator *autosave.Coordinator
}

// New wires a complete instance over the given storage URI:
// store → schema init → cache warm-up → service → coordinator.
//
//	app, err := silt.New("./notes.db", silt.WithDebounceWindow(2*time.Second))
func New(uri string, opts ...Option) (*App, error) {
	store, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	// We also need the parsed options here for wiring the service.
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	service := core.NewService(store, core.ServiceConfig{
		Logger:      o.logger,
		Notifier:    o.notifier,
		UndoWindow:  o.undoWindow,
		EventBuffer: o.eventBuffer,
	})
	if err := service.Reload(context.Background()); err != nil {
		_ = store.Close()
		return nil, err
	}

	coordinator := autosave.New(
		func(ctx context.Context, snap autosave.Snapshot) (core.Note, error) {
			return service.SaveNote(ctx, snap.Target, snap.Title, snap.Content, snap.Tags, snap.Category)
		},
		autosave.Config{
			DebounceWindow: o.debounce,
			SaveTimeout:    o.saveTimeout,
			Logger:         o.logger,
			Notifier:       o.notifier,
		},
	)

	return &App{Service: service, Coordinator: coordinator}, nil
}

// Close flushes pending saves and releases the underlying store.
func (a *App) Close(ctx context.Context) error {
	if err := a.Coordinator.Flush(ctx); err != nil {
		return err
	}
	a.Coordinator.Close()
	return a.Service.Close()
}
