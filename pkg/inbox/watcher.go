// Package inbox watches a drop directory and imports note files as they
// appear. A file is consumed on successful import: parsed, inserted as a new
// note, then removed from the directory.
package inbox

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/silt/pkg/codec"
	"github.com/aretw0/silt/pkg/core"
)

// DefaultSettle is how long a file must stay quiet before it is imported;
// editors write in bursts, and a half-written file must not be parsed.
const DefaultSettle = 500 * time.Millisecond

// DefaultPattern matches the note formats the codec understands.
const DefaultPattern = "**/*.{md,json,txt}"

// Watcher is the inbox worker. It wraps a lifecycle BaseWorker the same way
// the store adapters wrap their substrates: Start spawns the event loop,
// Stop cancels it and waits.
type Watcher struct {
	*worker.BaseWorker

	svc     *core.Service
	dir     string
	pattern string
	settle  time.Duration
	logger  *slog.Logger

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New builds a watcher over dir. pattern is a doublestar glob matched against
// the path relative to dir; empty means DefaultPattern.
func New(svc *core.Service, dir, pattern string, logger *slog.Logger) *Watcher {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		BaseWorker: worker.NewBaseWorker("inbox-watcher"),
		svc:        svc,
		dir:        dir,
		pattern:    pattern,
		settle:     DefaultSettle,
		logger:     logger,
		timers:     make(map[string]*time.Timer),
	}
}

// Start begins watching. Files already sitting in the inbox are imported
// first, so a watcher started late does not miss earlier drops.
func (w *Watcher) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("inbox watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.addRecursive(watcher); err != nil {
		_ = watcher.Close()
		return err
	}
	w.watcher = watcher

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.sweep(runCtx)

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

// Stop cancels the event loop and waits for it to exit.
func (w *Watcher) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

// State implements worker state export with goroutine metadata.
func (w *Watcher) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

func (w *Watcher) addRecursive(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

// sweep schedules every file already present, as if it had just appeared.
func (w *Watcher) sweep(ctx context.Context) {
	_ = filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if w.matches(path) {
			w.schedule(ctx, path)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) error {
	defer w.watcher.Close()
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("fsnotify error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	// New subdirectories join the watch set.
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if event.Has(fsnotify.Create) {
			_ = w.watcher.Add(event.Name)
		}
		return
	}

	if !w.matches(event.Name) {
		w.logger.Debug("ignoring inbox file", "path", event.Name)
		return
	}
	w.schedule(ctx, event.Name)
}

func (w *Watcher) matches(path string) bool {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		return false
	}
	ok, err := doublestar.Match(w.pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

// schedule (re)arms the per-file settle timer. A write burst against one
// file lands as a single import once the file stays quiet.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		lifecycle.Go(ctx, func(ctx context.Context) error {
			return w.importFile(ctx, path)
		}, lifecycle.WithErrorHandler(func(err error) {
			w.logger.Error("inbox import panic", "path", path, "error", err)
		}))
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) importFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Removed before it settled; nothing to import.
			return nil
		}
		w.logger.Error("inbox read failed", "path", path, "error", err)
		return err
	}

	n, err := codec.Import(data, filepath.Base(path), codec.FormatForPath(path))
	if err != nil {
		// A malformed file stays in place so the user can fix it.
		w.logger.Warn("inbox file rejected", "path", path, "error", err)
		return nil
	}

	stored, err := w.svc.Import(ctx, n)
	if err != nil {
		return err
	}
	w.logger.Info("imported note from inbox", "path", path, "id", stored.ID, "title", stored.Title)

	if err := os.Remove(path); err != nil {
		w.logger.Warn("could not consume inbox file", "path", path, "error", err)
	}
	return nil
}
