package core

import "context"

// Store defines the contract for durably keeping notes.
// Adhering to this interface keeps the core independent of the underlying
// substrate (SQLite, in-memory, or anything else with a transactional put/get).
//
// Each call affects exactly one record; no operation may be assumed atomic
// across multiple notes. Substrate failures surface as *StorageError.
type Store interface {
	// Insert persists a new note and returns the id assigned by the store.
	// The note's own ID field is ignored.
	Insert(ctx context.Context, n Note) (int64, error)

	// Replace overwrites the stored record with n.ID. Fails fast with
	// ErrInvalidID when the id is not positive.
	Replace(ctx context.Context, n Note) error

	// Remove deletes the record by id. Fails fast with ErrInvalidID when the
	// id is not positive; removing an absent id is not an error.
	Remove(ctx context.Context, id int64) error

	// FetchOne retrieves a note by id. Returns ErrNotFound when absent and
	// ErrInvalidID — without contacting the substrate — when id is not positive.
	FetchOne(ctx context.Context, id int64) (Note, error)

	// FetchAll returns every stored note, in no particular order.
	FetchAll(ctx context.Context) ([]Note, error)

	// Initialize ensures the underlying storage is ready (schema migration,
	// directory creation, and so on).
	Initialize(ctx context.Context) error

	// Close releases the substrate.
	Close() error
}
