// Package sessionstore persists the last-authenticated session snapshot in a
// local SQLite database so a restart resumes without re-login. The snapshot
// lives under a single fixed key and is cleared on logout.
package sessionstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/pr-poehali-dev/onlimess/internal/client/models"
	"github.com/pr-poehali-dev/onlimess/internal/common"
)

// snapshotKey matches the storage key the original client used.
const snapshotKey = "onlimess-current-user"

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the local store at path. Use
// ":memory:" style DSNs in tests.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS metadata (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init session store: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists the session snapshot, replacing any previous one.
func (s *Store) Save(ctx context.Context, session *models.Session) error {
	value, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, snapshotKey, value)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or common.ErrNotFound when none exists.
func (s *Store) Load(ctx context.Context) (*models.Session, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM metadata WHERE key = ?`, snapshotKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(value, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

// Clear removes the snapshot. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM metadata WHERE key = ?`, snapshotKey)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
