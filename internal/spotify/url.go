// Package spotify imports tracks, albums and playlists from Spotify URLs.
// Spotify only supplies metadata; stream URLs are resolved through the
// catalog search collaborator.
package spotify

import "regexp"

var (
	urlPattern      = regexp.MustCompile(`https?://[^\s"]+`)
	trackPattern    = regexp.MustCompile(`track/([a-zA-Z0-9]+)`)
	albumPattern    = regexp.MustCompile(`(spotify:album:|https://open\.spotify\.com/album/)([a-zA-Z0-9]{22})`)
	playlistPattern = regexp.MustCompile(`(spotify:playlist:|https://open\.spotify\.com/playlist/)([a-zA-Z0-9]{22})`)
)

// IsURL reports whether the input looks like a URL at all.
func IsURL(s string) bool {
	return urlPattern.MatchString(s)
}

// TrackID extracts a track ID from a Spotify track URL, or "".
func TrackID(s string) string {
	m := trackPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

// AlbumID extracts an album ID from a Spotify album URL or URI, or "".
func AlbumID(s string) string {
	m := albumPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[2]
}

// PlaylistID extracts a playlist ID from a Spotify playlist URL or URI, or "".
func PlaylistID(s string) string {
	m := playlistPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[2]
}
