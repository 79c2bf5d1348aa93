package lyrics

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// SubtitleFileName is the artifact handed to the player for every track.
const SubtitleFileName = "lyrics.vtt"

// Fetcher produces subtitle artifacts for playback. A single artifact path
// is reused per session; it is rewritten before each track and removed by
// Cleanup on every playback exit path.
type Fetcher struct {
	client *Client
	dir    string
}

// NewFetcher creates a Fetcher writing artifacts under dir.
func NewFetcher(dir string) *Fetcher {
	return &Fetcher{client: NewClient(), dir: dir}
}

// EnsureSubtitle writes the subtitle file for the given "{title} - {artist}"
// query and returns its path. When synced lyrics are disabled, or fetching
// or conversion fails in any way, the artifact is an empty-but-valid WEBVTT
// document; the player never sees a missing file.
func (f *Fetcher) EnsureSubtitle(ctx context.Context, query string, synced bool) string {
	path := filepath.Join(f.dir, SubtitleFileName)

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		log.WithError(err).Debug("create lyrics dir")
		return path
	}

	if synced {
		if err := f.writeSynced(ctx, query, path); err == nil {
			return path
		} else {
			log.WithError(err).WithField("query", query).Debug("synced lyrics unavailable")
		}
	}

	f.writeEmpty(path)
	return path
}

func (f *Fetcher) writeSynced(ctx context.Context, query, path string) error {
	result, err := f.client.Search(ctx, query)
	if err != nil {
		return err
	}

	lines, err := ParseLRC(strings.NewReader(result.SyncedLyrics))
	if err != nil || len(lines) == 0 {
		return ErrNotFound
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteVTT(file, lines)
}

func (f *Fetcher) writeEmpty(path string) {
	if err := os.WriteFile(path, []byte("WEBVTT\n\n"), 0o644); err != nil {
		log.WithError(err).Debug("write empty subtitle")
	}
}

// Cleanup removes the subtitle artifact. Safe to call repeatedly and when
// no artifact exists.
func (f *Fetcher) Cleanup() {
	_ = os.Remove(filepath.Join(f.dir, SubtitleFileName))
}
