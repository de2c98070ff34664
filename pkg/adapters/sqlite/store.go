// Package sqlite implements the durable note store on an embedded SQLite
// database (pure Go driver, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/aretw0/silt/pkg/core"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS notes (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	title    TEXT NOT NULL,
	content  TEXT NOT NULL DEFAULT '',
	tags     TEXT NOT NULL DEFAULT '[]',
	category TEXT NOT NULL DEFAULT 'personal',
	date     TEXT NOT NULL,
	pinned   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_notes_date ON notes(date);
CREATE INDEX IF NOT EXISTS idx_notes_category ON notes(category);
`

// Store persists notes in a single SQLite collection. Tags are kept as a JSON
// array string so the record round-trips exactly; date and category carry
// secondary, non-unique indexes for list filtering.
type Store struct {
	db     *sql.DB
	dsn    string
	logger *slog.Logger
}

// New opens (or creates) the database at dsn. ":memory:" is supported for
// tests. Call Initialize before first use.
func New(dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, core.NewStorageError("open", err)
	}
	// The driver serializes writes; a single connection avoids table-lock
	// errors on concurrent use and keeps :memory: databases coherent.
	db.SetMaxOpenConns(1)
	return &Store{db: db, dsn: dsn, logger: logger}, nil
}

// Initialize creates the schema and stamps the collection version.
func (s *Store) Initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return core.NewStorageError("initialize", err)
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return core.NewStorageError("initialize", err)
	}
	s.logger.Debug("sqlite store ready", "dsn", s.dsn, "version", schemaVersion)
	return nil
}

// Insert persists a new note and returns the id SQLite assigned.
func (s *Store) Insert(ctx context.Context, n core.Note) (int64, error) {
	tags, err := marshalTags(n.Tags)
	if err != nil {
		return 0, core.NewStorageError("insert", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (title, content, tags, category, date, pinned) VALUES (?, ?, ?, ?, ?, ?)`,
		n.Title, n.Content, tags, string(n.Category), n.Date, boolToInt(n.Pinned),
	)
	if err != nil {
		return 0, core.NewStorageError("insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, core.NewStorageError("insert", err)
	}
	return id, nil
}

// Replace overwrites the record with n.ID.
func (s *Store) Replace(ctx context.Context, n core.Note) error {
	if n.ID <= 0 {
		return core.ErrInvalidID
	}
	tags, err := marshalTags(n.Tags)
	if err != nil {
		return core.NewStorageError("replace", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, tags = ?, category = ?, date = ?, pinned = ? WHERE id = ?`,
		n.Title, n.Content, tags, string(n.Category), n.Date, boolToInt(n.Pinned), n.ID,
	)
	if err != nil {
		return core.NewStorageError("replace", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.NewStorageError("replace", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Remove deletes the record by id. Removing an absent id is not an error.
func (s *Store) Remove(ctx context.Context, id int64) error {
	if id <= 0 {
		return core.ErrInvalidID
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return core.NewStorageError("remove", err)
	}
	return nil
}

// FetchOne retrieves a note by id.
func (s *Store) FetchOne(ctx context.Context, id int64) (core.Note, error) {
	if id <= 0 {
		return core.Note{}, core.ErrInvalidID
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, tags, category, date, pinned FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Note{}, core.ErrNotFound
	}
	if err != nil {
		return core.Note{}, core.NewStorageError("fetch", err)
	}
	return n, nil
}

// FetchAll returns every stored note.
func (s *Store) FetchAll(ctx context.Context) ([]core.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, tags, category, date, pinned FROM notes`)
	if err != nil {
		return nil, core.NewStorageError("fetch", err)
	}
	defer rows.Close()

	var notes []core.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, core.NewStorageError("fetch", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStorageError("fetch", err)
	}
	return notes, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlite"
}

var _ core.Store = (*Store)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(row scanner) (core.Note, error) {
	var (
		n        core.Note
		tags     string
		category string
		pinned   int
	)
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &tags, &category, &n.Date, &pinned); err != nil {
		return core.Note{}, err
	}
	if err := json.Unmarshal([]byte(tags), &n.Tags); err != nil {
		// A corrupt tags column loses the tags, not the note.
		n.Tags = nil
	}
	n.Category = core.Category(category)
	n.Pinned = pinned != 0
	return n, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
