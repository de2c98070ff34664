// Package silt is the Composition Root for the Silt application.
//
// It connects the core business logic (Domain Layer) with the infrastructure
// adapters (Persistence Layer) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// Silt is a local-first note store with an autosave discipline. It treats a
// single collection of notes as a transactional database and keeps three
// promises: a burst of edits becomes one durable write, two saves never
// overlap, and a deleted note can be brought back for a short window. The
// default substrate is an embedded SQLite database, but the core is agnostic
// and any implementation of core.Store will do.
//
// Features:
//
//   - **Hexagonal Architecture**: Core domain is isolated from persistence details.
//   - **Autosave Coordinator**: Debounced, deduplicated, serialized saves with a timeout guard.
//   - **Undo Delete**: Single-slot, time-bounded restore under a fresh id.
//   - **Import/Export**: JSON and Markdown (with optional YAML frontmatter).
//   - **Inbox Watcher**: Drop a file in a directory, get a note.
//   - **Default Adapter (SQLite)**: Pure-Go embedded database, ":memory:" for tests.
//
// Usage:
//
//	// Initialize the app with functional options
//	app, err := silt.New("./notes.db",
//		silt.WithLogger(logger),
//		silt.WithDebounceWindow(time.Second),
//	)
//
//	// Feed editor changes; the coordinator decides when to write
//	app.Coordinator.Changed(autosave.Snapshot{Title: "Plan", Content: "..."})
package silt
