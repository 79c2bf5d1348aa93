// Package store persists the playback queue and named playlists in a
// sqlite database under the user's data directory.
package store

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "harmony"
	dbFileName = "harmony.db"
)

// Store wraps the sqlite database holding the queue and playlists.
// It is only ever accessed from the foreground command loop, so every
// mutating operation commits before returning.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at the default xdg data path.
func Open() (*Store, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	return OpenAt(dbPath)
}

// OpenAt opens the database at an explicit path.
func OpenAt(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS queue_tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			duration TEXT NOT NULL,
			url TEXT NOT NULL,
			UNIQUE(position)
		);

		CREATE TABLE IF NOT EXISTS playlists (
			name TEXT NOT NULL,
			metadata TEXT NOT NULL,
			created_at INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return err
	}

	// Migration: created_at was added after the first release.
	_, _ = db.Exec(`ALTER TABLE playlists ADD COLUMN created_at INTEGER NOT NULL DEFAULT 0`)

	return nil
}

// withTx executes fn within a transaction, rolling back on error.
func (s *Store) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
