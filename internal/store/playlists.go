package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/zingytomato/harmony/internal/track"
)

// PlaylistRow is one named playlist with its decoded track list.
type PlaylistRow struct {
	Name      string
	Tracks    []track.Track
	CreatedAt time.Time
}

// CreatePlaylist inserts a new playlist with an empty track list.
// Names are not required to be unique; playlists are addressed by index
// when listed, so duplicates are tolerated the same way they always were.
func (s *Store) CreatePlaylist(name string) error {
	_, err := s.db.Exec(
		`INSERT INTO playlists (name, metadata, created_at) VALUES (?, ?, ?)`,
		name, "[]", time.Now().Unix(),
	)
	return err
}

// ListPlaylists returns every playlist in insertion order.
func (s *Store) ListPlaylists() ([]PlaylistRow, error) {
	rows, err := s.db.Query(`SELECT name, metadata, created_at FROM playlists ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlaylistRow
	for rows.Next() {
		var (
			name     string
			metadata string
			created  int64
		)
		if err := rows.Scan(&name, &metadata, &created); err != nil {
			return nil, err
		}
		out = append(out, PlaylistRow{
			Name:      name,
			Tracks:    decodeTracks(metadata),
			CreatedAt: time.Unix(created, 0),
		})
	}
	return out, rows.Err()
}

// PlaylistAt returns the playlist at the given 0-based position in
// insertion order, or nil if the position is out of range.
func (s *Store) PlaylistAt(index int) (*PlaylistRow, error) {
	row := s.db.QueryRow(
		`SELECT name, metadata, created_at FROM playlists ORDER BY rowid LIMIT 1 OFFSET ?`,
		index,
	)

	var (
		name     string
		metadata string
		created  int64
	)
	err := row.Scan(&name, &metadata, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &PlaylistRow{
		Name:      name,
		Tracks:    decodeTracks(metadata),
		CreatedAt: time.Unix(created, 0),
	}, nil
}

// AppendToPlaylist appends one track to a playlist via read-modify-write.
// A malformed or non-array payload is reset to an empty list first rather
// than failing the append.
func (s *Store) AppendToPlaylist(name string, t track.Track) error {
	row := s.db.QueryRow(`SELECT metadata FROM playlists WHERE name = ? LIMIT 1`, name)

	var metadata string
	if err := row.Scan(&metadata); err != nil {
		return err
	}

	tracks := decodeTracks(metadata)
	tracks = append(tracks, t)
	return s.OverwritePlaylist(name, tracks)
}

// OverwritePlaylist replaces a playlist's track list wholesale.
func (s *Store) OverwritePlaylist(name string, tracks []track.Track) error {
	if tracks == nil {
		tracks = []track.Track{}
	}
	payload, err := json.Marshal(tracks)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`UPDATE playlists SET metadata = ? WHERE name = ?`, string(payload), name)
	return err
}

// DeletePlaylist removes a playlist by name.
func (s *Store) DeletePlaylist(name string) error {
	_, err := s.db.Exec(`DELETE FROM playlists WHERE name = ?`, name)
	return err
}

// decodeTracks decodes a JSON track array, recovering from any payload
// whose shape doesn't match by treating it as empty.
func decodeTracks(metadata string) []track.Track {
	var tracks []track.Track
	if err := json.Unmarshal([]byte(metadata), &tracks); err != nil {
		return []track.Track{}
	}
	if tracks == nil {
		tracks = []track.Track{}
	}
	return tracks
}
