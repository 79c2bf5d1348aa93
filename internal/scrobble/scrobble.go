// Package scrobble submits finished tracks to Last.fm.
package scrobble

import (
	"time"

	"github.com/shkh/lastfm-go/lastfm"
	log "github.com/sirupsen/logrus"
)

// Scrobbler records a finished track. Implementations must never block
// playback on failure.
type Scrobbler interface {
	Scrobble(artist, title string)
}

// Noop is used when Last.fm credentials are not configured.
type Noop struct{}

func (Noop) Scrobble(string, string) {}

// Lastfm scrobbles through the Last.fm mobile-session API.
type Lastfm struct {
	api *lastfm.Api
}

// NewLastfm authenticates with username and password. Returns an error when
// login fails; callers fall back to Noop.
func NewLastfm(apiKey, apiSecret, username, password string) (*Lastfm, error) {
	api := lastfm.New(apiKey, apiSecret)
	if err := api.Login(username, password); err != nil {
		return nil, err
	}
	return &Lastfm{api: api}, nil
}

// Scrobble submits one listen. Failures are logged and swallowed;
// scrobbling is strictly best-effort.
func (l *Lastfm) Scrobble(artist, title string) {
	_, err := l.api.Track.Scrobble(lastfm.P{
		"artist":    artist,
		"track":     title,
		"timestamp": time.Now().Unix(),
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"artist": artist,
			"track":  title,
		}).Debug("scrobble failed")
	}
}
