// Package store keeps trained models in a SQLite database so that they
// can be listed, exported and imported by name.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no model has the requested name.
var ErrNotFound = errors.New("store: model not found")

// Model describes a stored model. Blob is only filled by Get.
type Model struct {
	ID      string
	Name    string
	Kind    string
	Size    int
	Created time.Time
	Blob    []byte
}

// Store is a SQLite-backed model store.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS models (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		kind TEXT NOT NULL,
		blob BLOB NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_models_kind ON models(kind);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Put stores blob under name, replacing any model with that name, and
// returns the new model id.
func (s *Store) Put(ctx context.Context, name, kind string, blob []byte) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO models (id, name, kind, blob, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			id = excluded.id, kind = excluded.kind, blob = excluded.blob, created_at = excluded.created_at`,
		id, name, kind, blob, time.Now().UnixNano())
	if err != nil {
		return "", fmt.Errorf("put model %s: %w", name, err)
	}
	return id, nil
}

// Get returns the model stored under name.
func (s *Store) Get(ctx context.Context, name string) (*Model, error) {
	m := &Model{Name: name}
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, kind, blob, created_at FROM models WHERE name = ?`, name,
	).Scan(&m.ID, &m.Kind, &m.Blob, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get model %s: %w", name, err)
	}
	m.Size = len(m.Blob)
	m.Created = time.Unix(0, created)
	return m, nil
}

// List returns every model without its blob, ordered by name.
func (s *Store) List(ctx context.Context) ([]Model, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, kind, length(blob), created_at FROM models ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var out []Model
	for rows.Next() {
		var m Model
		var created int64
		if err := rows.Scan(&m.ID, &m.Name, &m.Kind, &m.Size, &created); err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		m.Created = time.Unix(0, created)
		out = append(out, m)
	}
	return out, rows.Err()
}

// Delete removes the model stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM models WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete model %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete model %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}
