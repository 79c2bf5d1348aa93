package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/zingytomato/harmony/internal/config"
	"github.com/zingytomato/harmony/internal/queue"
	"github.com/zingytomato/harmony/internal/search"
	"github.com/zingytomato/harmony/internal/store"
	"github.com/zingytomato/harmony/internal/track"
)

type fakePlayer struct {
	played []string
}

func (p *fakePlayer) Play(_ context.Context, url, _, _ string) error {
	p.played = append(p.played, url)
	return nil
}

type fakeLyrics struct{}

func (fakeLyrics) EnsureSubtitle(context.Context, string, bool) string { return "" }
func (fakeLyrics) Cleanup()                                            {}

type fakeCatalog struct {
	results  []search.Result
	err      error
	trending []search.TrendingEntry
}

func (f *fakeCatalog) Search(context.Context, string) ([]search.Result, error) {
	return f.results, f.err
}

func (f *fakeCatalog) Trending(context.Context) ([]search.TrendingEntry, error) {
	return f.trending, f.err
}

type fakeImporter struct {
	track  track.Track
	tracks []track.Track
}

func (f *fakeImporter) ImportTrack(context.Context, string) (track.Track, error) {
	return f.track, nil
}

func (f *fakeImporter) ImportAlbum(context.Context, string) ([]track.Track, error) {
	return f.tracks, nil
}

func (f *fakeImporter) ImportPlaylist(context.Context, string) ([]track.Track, error) {
	return f.tracks, nil
}

type fakePlaylistStore struct {
	rows     []store.PlaylistRow
	appended map[string][]track.Track
}

func (f *fakePlaylistStore) ListPlaylists() ([]store.PlaylistRow, error) {
	return f.rows, nil
}

func (f *fakePlaylistStore) AppendToPlaylist(name string, t track.Track) error {
	if f.appended == nil {
		f.appended = map[string][]track.Track{}
	}
	f.appended[name] = append(f.appended[name], t)
	return nil
}

type fakeMenu struct{ calls int }

func (f *fakeMenu) Menu(context.Context) error {
	f.calls++
	return nil
}

type script struct {
	lines []string
	pos   int
}

func (s *script) ReadLine(string) (string, error) {
	if s.pos >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.pos]
	s.pos++
	return line, nil
}

func tr(title string) track.Track {
	return track.Track{Title: title, Artist: "artist", Duration: "03:00", URL: "url-" + title}
}

func newTestApp(player *fakePlayer, queued []track.Track, lines ...string) *App {
	q := queue.New(queue.Options{
		Tracks: queued,
		Player: player,
		Lyrics: fakeLyrics{},
		Out:    &bytes.Buffer{},
	})
	return &App{
		Config:    &config.Config{},
		Queue:     q,
		Playlists: &fakeMenu{},
		Store:     &fakePlaylistStore{},
		Catalog:   &fakeCatalog{},
		Importer:  &fakeImporter{},
		Input:     &script{lines: lines},
		Out:       &bytes.Buffer{},
	}
}

func TestDispatchQuit(t *testing.T) {
	a := newTestApp(&fakePlayer{}, nil)

	if err := a.dispatch(context.Background(), "q"); !errors.Is(err, errQuit) {
		t.Errorf("dispatch(q) = %v, want errQuit", err)
	}
}

func TestDispatchPlaysSingleIndex(t *testing.T) {
	p := &fakePlayer{}
	a := newTestApp(p, []track.Track{tr("A"), tr("B")})

	if err := a.dispatch(context.Background(), "2"); err != nil {
		t.Fatalf("dispatch(2): %v", err)
	}
	if len(p.played) != 1 || p.played[0] != "url-B" {
		t.Errorf("played = %v, want [url-B]", p.played)
	}
}

func TestDispatchPlaysRange(t *testing.T) {
	p := &fakePlayer{}
	a := newTestApp(p, []track.Track{tr("A"), tr("B"), tr("C")})

	if err := a.dispatch(context.Background(), "1..2"); err != nil {
		t.Fatalf("dispatch(1..2): %v", err)
	}
	if len(p.played) != 2 || p.played[0] != "url-A" || p.played[1] != "url-B" {
		t.Errorf("played = %v, want [url-A url-B]", p.played)
	}
}

func TestDispatchPlayOnEmptyQueueContinues(t *testing.T) {
	a := newTestApp(&fakePlayer{}, nil)

	if err := a.dispatch(context.Background(), "p"); err != nil {
		t.Errorf("dispatch(p) on empty queue = %v, want nil", err)
	}
}

func TestDispatchURLWithoutCredentials(t *testing.T) {
	a := newTestApp(&fakePlayer{}, nil)

	err := a.dispatch(context.Background(), "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT")
	if err != nil {
		t.Errorf("dispatch(url) = %v, want nil (reported, not fatal)", err)
	}
	if a.Queue.Len() != 0 {
		t.Errorf("queue len = %d, want 0", a.Queue.Len())
	}
}

func TestDispatchURLImportsTrack(t *testing.T) {
	a := newTestApp(&fakePlayer{}, nil)
	a.Config = &config.Config{Spotify: config.SpotifyConfig{ClientID: "id", ClientSecret: "secret"}}
	a.Importer = &fakeImporter{track: tr("Imported")}

	err := a.dispatch(context.Background(), "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT")
	if err != nil {
		t.Fatalf("dispatch(url): %v", err)
	}
	if a.Queue.Len() != 1 || a.Queue.Tracks()[0].Title != "Imported" {
		t.Errorf("queue = %v", a.Queue.Tracks())
	}
}

func TestDispatchViewOpensPlaylistMenu(t *testing.T) {
	a := newTestApp(&fakePlayer{}, nil)
	menu := &fakeMenu{}
	a.Playlists = menu

	if err := a.dispatch(context.Background(), "v"); err != nil {
		t.Fatalf("dispatch(v): %v", err)
	}
	if menu.calls != 1 {
		t.Errorf("menu calls = %d, want 1", menu.calls)
	}
}

func TestSearchNoResults(t *testing.T) {
	a := newTestApp(&fakePlayer{}, nil)
	a.Catalog = &fakeCatalog{err: search.ErrNoResults}

	if err := a.dispatch(context.Background(), "some song"); err != nil {
		t.Errorf("dispatch(search) = %v, want nil", err)
	}
}

func TestSearchPickAddsToQueue(t *testing.T) {
	a := newTestApp(&fakePlayer{}, nil, "2")
	a.Catalog = &fakeCatalog{results: []search.Result{
		{Track: tr("First")},
		{Track: tr("Second")},
	}}

	if err := a.dispatch(context.Background(), "some song"); err != nil {
		t.Fatalf("dispatch(search): %v", err)
	}
	tracks := a.Queue.Tracks()
	if len(tracks) != 1 || tracks[0].Title != "Second" {
		t.Errorf("queue = %v, want [Second]", tracks)
	}
}

func TestSearchPickMultiple(t *testing.T) {
	a := newTestApp(&fakePlayer{}, nil, "3 1")
	a.Catalog = &fakeCatalog{results: []search.Result{
		{Track: tr("A")}, {Track: tr("B")}, {Track: tr("C")},
	}}

	if err := a.dispatch(context.Background(), "some song"); err != nil {
		t.Fatalf("dispatch(search): %v", err)
	}
	tracks := a.Queue.Tracks()
	if len(tracks) != 2 || tracks[0].Title != "C" || tracks[1].Title != "A" {
		t.Errorf("queue = %v, want [C A]", tracks)
	}
}

func TestSearchPickInvalidThenBack(t *testing.T) {
	a := newTestApp(&fakePlayer{}, nil, "99", "b")
	a.Catalog = &fakeCatalog{results: []search.Result{{Track: tr("A")}}}

	if err := a.dispatch(context.Background(), "some song"); err != nil {
		t.Fatalf("dispatch(search): %v", err)
	}
	if a.Queue.Len() != 0 {
		t.Errorf("queue len = %d, want 0", a.Queue.Len())
	}
}

func TestSearchAddToPlaylist(t *testing.T) {
	st := &fakePlaylistStore{rows: []store.PlaylistRow{{Name: "Chill"}}}
	a := newTestApp(&fakePlayer{}, nil, "a", "1 2")
	a.Catalog = &fakeCatalog{results: []search.Result{{Track: tr("A")}, {Track: tr("B")}}}
	a.Store = st
	a.PickPlaylist = func([]store.PlaylistRow) (string, error) { return "Chill", nil }

	if err := a.dispatch(context.Background(), "some song"); err != nil {
		t.Fatalf("dispatch(search): %v", err)
	}
	if got := st.appended["Chill"]; len(got) != 2 || got[0].Title != "A" || got[1].Title != "B" {
		t.Errorf("appended = %v, want [A B]", got)
	}
	if a.Queue.Len() != 0 {
		t.Errorf("queue len = %d, want 0", a.Queue.Len())
	}
}

func TestAddQueueToPlaylist(t *testing.T) {
	st := &fakePlaylistStore{rows: []store.PlaylistRow{{Name: "Chill"}}}
	a := newTestApp(&fakePlayer{}, []track.Track{tr("A"), tr("B")})
	a.Store = st
	a.PickPlaylist = func([]store.PlaylistRow) (string, error) { return "Chill", nil }

	if err := a.dispatch(context.Background(), "a"); err != nil {
		t.Fatalf("dispatch(a): %v", err)
	}
	if got := st.appended["Chill"]; len(got) != 2 {
		t.Errorf("appended = %v, want both queue tracks", got)
	}
}

func TestEditQueueRemove(t *testing.T) {
	a := newTestApp(&fakePlayer{}, []track.Track{tr("A"), tr("B")}, "r", "1", "b")

	if err := a.editQueue(context.Background()); err != nil {
		t.Fatalf("editQueue: %v", err)
	}
	tracks := a.Queue.Tracks()
	if len(tracks) != 1 || tracks[0].Title != "B" {
		t.Errorf("queue = %v, want [B]", tracks)
	}
}

func TestEditQueueMove(t *testing.T) {
	a := newTestApp(&fakePlayer{}, []track.Track{tr("A"), tr("B"), tr("C")}, "m", "1", "3", "b")

	if err := a.editQueue(context.Background()); err != nil {
		t.Fatalf("editQueue: %v", err)
	}
	tracks := a.Queue.Tracks()
	if tracks[0].Title != "B" || tracks[2].Title != "A" {
		t.Errorf("queue = %v, want [B C A]", tracks)
	}
}

func TestEditQueueLoopToggle(t *testing.T) {
	a := newTestApp(&fakePlayer{}, []track.Track{tr("A")}, "l", "b")

	if err := a.editQueue(context.Background()); err != nil {
		t.Fatalf("editQueue: %v", err)
	}
	if !a.Queue.Loop() {
		t.Error("loop should be enabled after toggle")
	}
}

func TestInteractiveQuit(t *testing.T) {
	a := newTestApp(&fakePlayer{}, nil)
	a.Input = &script{lines: []string{"", "q"}}

	if err := a.Interactive(context.Background()); err != nil {
		t.Errorf("Interactive = %v, want nil", err)
	}
}

func TestInteractiveEOF(t *testing.T) {
	a := newTestApp(&fakePlayer{}, nil)

	if err := a.Interactive(context.Background()); err != nil {
		t.Errorf("Interactive on EOF = %v, want nil", err)
	}
}
