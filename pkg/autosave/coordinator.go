// Package autosave converts a stream of editor-change signals into durable
// saves: it debounces bursts, suppresses no-op saves, serializes everything
// through an at-most-one-in-flight queue, and guards stalled saves with a
// timeout so the UI never wedges.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/silt/pkg/core"
)

// Defaults, overridable through Config.
const (
	DefaultDebounceWindow = 1 * time.Second
	DefaultSaveTimeout    = 5 * time.Second
	DefaultRedrainDelay   = 100 * time.Millisecond
)

// Snapshot is one captured editor state. Target is the note id the snapshot
// was taken against (0 = composing a new note); it is fixed at capture time,
// so a save in flight when the user switches notes still lands on its
// original target.
type Snapshot struct {
	Target   int64
	Title    string
	Content  string
	Tags     []string
	Category core.Category
}

func (s Snapshot) equal(o Snapshot) bool {
	if s.Target != o.Target || s.Title != o.Title || s.Content != o.Content || len(s.Tags) != len(o.Tags) {
		return false
	}
	for i := range s.Tags {
		if s.Tags[i] != o.Tags[i] {
			return false
		}
	}
	return true
}

// SaveFunc persists one snapshot and returns the stored note
// (carrying the assigned id when the snapshot created one).
type SaveFunc func(ctx context.Context, snap Snapshot) (core.Note, error)

// Status is the coordinator's current phase.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusDebouncing Status = "debouncing"
	StatusSaving     Status = "saving"
)

// Config tunes the coordinator's timers. Zero values use the defaults.
type Config struct {
	DebounceWindow time.Duration
	SaveTimeout    time.Duration
	RedrainDelay   time.Duration
	Logger         *slog.Logger
	Notifier       core.Notifier
}

// Coordinator is the single save-serialization domain: every save-initiating
// path (autosave, manual save) goes through it, so two saves never overlap.
//
// It is an explicit state machine — Idle, Debouncing, Saving — driven by edit
// signals, timer expiry, and save completion. Each started save belongs to a
// generation; when the timeout guard abandons a generation, its eventual
// completion is recognized as stale and ignored, so a late success can never
// re-corrupt the re-enabled state.
type Coordinator struct {
	mu sync.Mutex

	save     SaveFunc
	cfg      Config
	logger   *slog.Logger
	notifier core.Notifier

	status    Status
	queue     []Snapshot
	lastSaved *Snapshot
	gen       uint64

	debounce *time.Timer
	guard    *time.Timer
	waiters  []chan struct{}
	closed   bool
}

// New builds a coordinator around the given save function.
func New(save SaveFunc, cfg Config) *Coordinator {
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = DefaultDebounceWindow
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = DefaultSaveTimeout
	}
	if cfg.RedrainDelay <= 0 {
		cfg.RedrainDelay = DefaultRedrainDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = core.LogNotifier{Logger: cfg.Logger}
	}
	return &Coordinator{
		save:     save,
		cfg:      cfg,
		logger:   cfg.Logger,
		notifier: cfg.Notifier,
		status:   StatusIdle,
	}
}

// Changed feeds one editor-change signal into the machine. A snapshot
// identical to the last successfully saved one is discarded immediately.
// Otherwise it is queued and the debounce countdown (re)starts; a burst of
// edits against the same target collapses into the newest snapshot.
func (c *Coordinator) Changed(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.lastSaved != nil && c.lastSaved.equal(snap) {
		return
	}
	c.enqueueLocked(snap)

	if c.status == StatusIdle {
		c.status = StatusDebouncing
	}
	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(c.cfg.DebounceWindow, c.drain)
}

// SaveNow pushes a snapshot through the same serialization domain without
// waiting out the debounce window. If a save is in flight the snapshot is
// queued behind it.
func (c *Coordinator) SaveNow(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	c.enqueueLocked(snap)
	c.drainLocked()
}

// Enabled reports whether the save trigger is available. It is false exactly
// while a save is in flight.
func (c *Coordinator) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status != StatusSaving
}

// Status returns the machine's current phase.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Reset forgets the last-saved snapshot. Called when the editing target
// changes so the first edit of the newly opened note is never mistaken for
// a no-op.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSaved = nil
}

// Flush blocks until the queue is empty and no save is in flight or
// debouncing, or the context is done. The debounce window is not waited out;
// pending work is drained immediately.
func (c *Coordinator) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.status == StatusIdle && len(c.queue) == 0 {
		c.mu.Unlock()
		return nil
	}
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	c.drainLocked()
	if c.status == StatusIdle && len(c.queue) == 0 {
		c.mu.Unlock()
		return nil
	}
	done := make(chan struct{})
	c.waiters = append(c.waiters, done)
	c.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the timers and rejects further signals. Queued snapshots are
// dropped; call Flush first to drain them.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.debounce != nil {
		c.debounce.Stop()
	}
	if c.guard != nil {
		c.guard.Stop()
	}
	c.queue = nil
	c.notifyWaitersLocked()
}

// enqueueLocked appends the snapshot, coalescing with the queue tail when it
// targets the same note — a burst of edits becomes one save.
func (c *Coordinator) enqueueLocked(snap Snapshot) {
	if n := len(c.queue); n > 0 && c.queue[n-1].Target == snap.Target {
		c.queue[n-1] = snap
		return
	}
	c.queue = append(c.queue, snap)
}

// drain moves the machine forward: pop the queue head and start saving it.
// A no-op while a save is already in flight — that save's completion will
// re-trigger the drain if work remains.
func (c *Coordinator) drain() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drainLocked()
}

func (c *Coordinator) drainLocked() {
	if c.closed || c.status == StatusSaving {
		return
	}
	if len(c.queue) == 0 {
		c.status = StatusIdle
		c.notifyWaitersLocked()
		return
	}
	snap := c.queue[0]
	c.queue = c.queue[1:]
	c.startLocked(snap)
}

// startLocked opens a new save generation: marks in-flight (disabling the
// trigger), arms the timeout guard, and issues the save off the lock.
func (c *Coordinator) startLocked(snap Snapshot) {
	c.status = StatusSaving
	c.gen++
	gen := c.gen

	c.guard = time.AfterFunc(c.cfg.SaveTimeout, func() { c.timeout(gen) })

	go func() {
		// Storage calls are not cancellable once issued; abandonment is
		// handled by generation bookkeeping, not context cancellation.
		n, err := c.save(context.Background(), snap)
		c.complete(gen, snap, n, err)
	}()
}

// complete handles a save result. Results from an abandoned generation (the
// guard already fired, or a newer save started) are ignored entirely.
func (c *Coordinator) complete(gen uint64, snap Snapshot, n core.Note, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || c.status != StatusSaving {
		c.logger.Debug("ignoring completion of abandoned save", "generation", gen, "error", err)
		return
	}
	if c.guard != nil {
		c.guard.Stop()
		c.guard = nil
	}
	c.status = StatusIdle

	if err != nil {
		// The snapshot is dropped, not retried: the editor's live content is
		// untouched, only the persisted copy lags until the next edit.
		c.logger.Error("save failed", "target", snap.Target, "error", err)
	} else {
		saved := snap
		if saved.Target == 0 {
			saved.Target = n.ID
		}
		c.lastSaved = &saved
	}

	if len(c.queue) > 0 && !c.closed {
		time.AfterFunc(c.cfg.RedrainDelay, c.drain)
		return
	}
	c.notifyWaitersLocked()
}

// timeout abandons a stalled generation: clears in-flight, re-enables the
// trigger, and surfaces the error. There is no automatic retry — the next
// edit or manual save re-triggers.
func (c *Coordinator) timeout(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || c.status != StatusSaving {
		return
	}
	// Bump the generation so the stalled save's eventual completion no
	// longer matches.
	c.gen++
	c.guard = nil
	c.status = StatusIdle
	c.logger.Warn("save timed out", "timeout", c.cfg.SaveTimeout)
	c.notifier.Notify(core.ErrSaveTimeout.Error(), core.SeverityError, 5*time.Second)

	// Newer edits queued behind the stalled save still drain; only the
	// abandoned snapshot itself is never retried.
	if len(c.queue) > 0 && !c.closed {
		time.AfterFunc(c.cfg.RedrainDelay, c.drain)
		return
	}
	c.notifyWaitersLocked()
}

func (c *Coordinator) notifyWaitersLocked() {
	if c.status != StatusIdle || len(c.queue) != 0 {
		return
	}
	for _, w := range c.waiters {
		close(w)
	}
	c.waiters = nil
}
