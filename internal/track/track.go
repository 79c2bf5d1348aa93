// Package track defines the normalized track record shared by the queue,
// playlists and the persistent store.
package track

import (
	"fmt"
	"html"
	"strings"
)

// Track is a single playable entry. The JSON field names match the
// persisted playlist payload layout and must not change.
type Track struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Duration string `json:"duration"` // display string, "MM:SS"
	URL      string `json:"url"`
}

// String renders the track the way it is shown everywhere in the UI.
func (t Track) String() string {
	return t.Title + " - " + t.Artist
}

// PrimaryArtist returns the first artist of a comma-separated artist list.
// Lyrics lookups match better on a single artist name.
func (t Track) PrimaryArtist() string {
	if i := strings.Index(t.Artist, ","); i >= 0 {
		return strings.TrimSpace(t.Artist[:i])
	}
	return t.Artist
}

// CleanText unescapes HTML entities that catalog APIs leave in titles.
func CleanText(s string) string {
	return html.UnescapeString(s)
}

// FormatDuration renders a duration in seconds as "MM:SS".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// JoinArtists joins artist names with a comma, cleaning each name.
func JoinArtists(names []string) string {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(CleanText(n)); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	return strings.Join(cleaned, ", ")
}
