package save

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrSlotNotFound is returned when a slot id does not exist.
var ErrSlotNotFound = errors.New("save slot not found")

// SlotMeta identifies a stored save slot without carrying its payload.
type SlotMeta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SlotStore persists named save payloads in a local SQLite database.
// Payloads are the base64 transport form, stored opaquely: the store
// never parses them, so a schema migration of the save record needs no
// database migration.
type SlotStore struct {
	db *sql.DB
}

// OpenSlotStore opens (creating if needed) the slot database at dbPath.
func OpenSlotStore(dbPath string) (*SlotStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating save database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening save database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging save database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS save_slots (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("creating save schema: %w", err)
	}

	return &SlotStore{db: db}, nil
}

// Put stores a new slot and returns its metadata.
func (s *SlotStore) Put(ctx context.Context, name, payload string) (SlotMeta, error) {
	meta := SlotMeta{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	meta.UpdatedAt = meta.CreatedAt

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO save_slots (id, name, payload, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		meta.ID, meta.Name, payload, meta.CreatedAt, meta.UpdatedAt)
	if err != nil {
		return SlotMeta{}, fmt.Errorf("storing save slot: %w", err)
	}
	return meta, nil
}

// Update overwrites an existing slot's payload.
func (s *SlotStore) Update(ctx context.Context, id, payload string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE save_slots SET payload = ?, updated_at = ? WHERE id = ?`,
		payload, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating save slot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating save slot: %w", err)
	}
	if n == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// Get returns a slot's metadata and payload.
func (s *SlotStore) Get(ctx context.Context, id string) (SlotMeta, string, error) {
	var meta SlotMeta
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, payload, created_at, updated_at FROM save_slots WHERE id = ?`, id).
		Scan(&meta.ID, &meta.Name, &payload, &meta.CreatedAt, &meta.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SlotMeta{}, "", ErrSlotNotFound
	}
	if err != nil {
		return SlotMeta{}, "", fmt.Errorf("loading save slot: %w", err)
	}
	return meta, payload, nil
}

// List returns all slot metadata, newest first.
func (s *SlotStore) List(ctx context.Context) ([]SlotMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM save_slots ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing save slots: %w", err)
	}
	defer rows.Close()

	var metas []SlotMeta
	for rows.Next() {
		var meta SlotMeta
		if err := rows.Scan(&meta.ID, &meta.Name, &meta.CreatedAt, &meta.UpdatedAt); err != nil {
			return nil, fmt.Errorf("listing save slots: %w", err)
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// Delete removes a slot. Deleting a missing slot is ErrSlotNotFound.
func (s *SlotStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM save_slots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting save slot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting save slot: %w", err)
	}
	if n == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *SlotStore) Close() error {
	return s.db.Close()
}
