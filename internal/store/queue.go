package store

import (
	"database/sql"

	"github.com/zingytomato/harmony/internal/track"
)

// SaveQueue replaces the stored queue wholesale. There is no partial
// update; the in-memory queue is always the source of truth and is written
// back after every mutation when persistence is enabled.
func (s *Store) SaveQueue(tracks []track.Track) error {
	return s.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM queue_tracks`); err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO queue_tracks (position, title, artist, duration, url)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range tracks {
			if _, err := stmt.Exec(i, t.Title, t.Artist, t.Duration, t.URL); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadQueue returns the stored queue in position order, or an empty slice
// on first run.
func (s *Store) LoadQueue() ([]track.Track, error) {
	rows, err := s.db.Query(`
		SELECT title, artist, duration, url
		FROM queue_tracks
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []track.Track
	for rows.Next() {
		var t track.Track
		if err := rows.Scan(&t.Title, &t.Artist, &t.Duration, &t.URL); err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}
