package queue

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/zingytomato/harmony/internal/track"
)

// fakePlayer records played URLs and can cancel playback after a fixed
// number of plays, standing in for a user interrupt.
type fakePlayer struct {
	played      []string
	failOn      map[int]bool // 1-based play count -> return error
	cancelAfter int          // cancel ctx after this many plays (0 = never)
	cancel      context.CancelFunc
}

func (p *fakePlayer) Play(_ context.Context, url, _, _ string) error {
	p.played = append(p.played, url)
	n := len(p.played)
	if p.cancelAfter > 0 && n >= p.cancelAfter && p.cancel != nil {
		p.cancel()
	}
	if p.failOn[n] {
		return errors.New("player crashed")
	}
	return nil
}

// fakeLyrics counts artifact creations and cleanups to assert the
// guaranteed-release rule.
type fakeLyrics struct {
	ensured int
	cleaned int
}

func (l *fakeLyrics) EnsureSubtitle(context.Context, string, bool) string {
	l.ensured++
	return "lyrics.vtt"
}

func (l *fakeLyrics) Cleanup() { l.cleaned++ }

type fakeScrobbler struct {
	scrobbled []string
}

func (s *fakeScrobbler) Scrobble(artist, title string) {
	s.scrobbled = append(s.scrobbled, title)
}

func newPlaybackManager(loop bool, p *fakePlayer, l *fakeLyrics, s *fakeScrobbler, tracks ...track.Track) *Manager {
	opts := Options{
		Tracks: tracks,
		Loop:   loop,
		Player: p,
		Lyrics: l,
		Out:    &bytes.Buffer{},
	}
	if s != nil {
		opts.Scrobbler = s
	}
	return New(opts)
}

func TestPlayAllSequential(t *testing.T) {
	p := &fakePlayer{}
	l := &fakeLyrics{}
	s := &fakeScrobbler{}
	m := newPlaybackManager(false, p, l, s, tr("A"), tr("B"), tr("C"))

	if err := m.PlayAll(context.Background()); err != nil {
		t.Fatalf("PlayAll: %v", err)
	}

	want := []string{"url-A", "url-B", "url-C"}
	if len(p.played) != 3 {
		t.Fatalf("played %v, want %v", p.played, want)
	}
	for i := range want {
		if p.played[i] != want[i] {
			t.Errorf("played[%d] = %q, want %q", i, p.played[i], want[i])
		}
	}
	if l.ensured != 3 || l.cleaned != 3 {
		t.Errorf("subtitles ensured=%d cleaned=%d, want 3/3", l.ensured, l.cleaned)
	}
	if len(s.scrobbled) != 3 {
		t.Errorf("scrobbled %v, want 3 entries", s.scrobbled)
	}
}

func TestPlayIndexesUserOrderPreserved(t *testing.T) {
	p := &fakePlayer{}
	m := newPlaybackManager(false, p, &fakeLyrics{}, nil, tr("A"), tr("B"), tr("C"))

	if err := m.PlayIndexes(context.Background(), []int{3, 1}); err != nil {
		t.Fatalf("PlayIndexes: %v", err)
	}

	if len(p.played) != 2 || p.played[0] != "url-C" || p.played[1] != "url-A" {
		t.Errorf("played = %v, want [url-C url-A]", p.played)
	}
}

func TestPlayIndexesSkipsOutOfRange(t *testing.T) {
	p := &fakePlayer{}
	m := newPlaybackManager(false, p, &fakeLyrics{}, nil, tr("A"), tr("B"))

	if err := m.PlayIndexes(context.Background(), []int{1, 9, 2}); err != nil {
		t.Fatalf("PlayIndexes: %v", err)
	}
	if len(p.played) != 2 || p.played[0] != "url-A" || p.played[1] != "url-B" {
		t.Errorf("played = %v, want [url-A url-B]", p.played)
	}
}

func TestLoopWrapsToFirstTrack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &fakePlayer{cancelAfter: 4, cancel: cancel}
	m := newPlaybackManager(true, p, &fakeLyrics{}, nil, tr("A"), tr("B"), tr("C"))

	err := m.PlayAll(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("PlayAll = %v, want context.Canceled", err)
	}

	// After the third track the machine must wrap to the first.
	want := []string{"url-A", "url-B", "url-C", "url-A"}
	if len(p.played) != 4 {
		t.Fatalf("played = %v, want %v", p.played, want)
	}
	for i := range want {
		if p.played[i] != want[i] {
			t.Errorf("played[%d] = %q, want %q", i, p.played[i], want[i])
		}
	}
}

func TestLoopSingleTrackReplays(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &fakePlayer{cancelAfter: 3, cancel: cancel}
	m := newPlaybackManager(true, p, &fakeLyrics{}, nil, tr("A"), tr("B"))

	_ = m.PlayIndex(ctx, 2)

	for i, u := range p.played {
		if u != "url-B" {
			t.Errorf("played[%d] = %q, want url-B", i, u)
		}
	}
	if len(p.played) != 3 {
		t.Errorf("played %d tracks, want 3", len(p.played))
	}
}

func TestPlayIndexOutOfRange(t *testing.T) {
	m := newPlaybackManager(false, &fakePlayer{}, &fakeLyrics{}, nil, tr("A"))

	if err := m.PlayIndex(context.Background(), 5); err == nil {
		t.Error("PlayIndex(5) on 1-track queue should fail")
	}
}

func TestPlayerErrorTreatedAsTrackFinished(t *testing.T) {
	p := &fakePlayer{failOn: map[int]bool{2: true}}
	l := &fakeLyrics{}
	s := &fakeScrobbler{}
	m := newPlaybackManager(false, p, l, s, tr("A"), tr("B"), tr("C"))

	if err := m.PlayAll(context.Background()); err != nil {
		t.Fatalf("PlayAll: %v", err)
	}

	if len(p.played) != 3 {
		t.Errorf("played %d tracks, want 3 (crash must not stop the run)", len(p.played))
	}
	// Cleanup runs even for the failed track.
	if l.cleaned != 3 {
		t.Errorf("cleaned = %d, want 3", l.cleaned)
	}
	// The crashed track is not scrobbled.
	if len(s.scrobbled) != 2 {
		t.Errorf("scrobbled = %v, want 2 entries", s.scrobbled)
	}
}

func TestCancelCleansUpSubtitle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &fakePlayer{cancelAfter: 1, cancel: cancel}
	l := &fakeLyrics{}
	m := newPlaybackManager(false, p, l, nil, tr("A"), tr("B"))

	err := m.PlayAll(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("PlayAll = %v, want context.Canceled", err)
	}
	if len(p.played) != 1 {
		t.Errorf("played = %v, want just url-A", p.played)
	}
	if l.cleaned != l.ensured {
		t.Errorf("ensured=%d cleaned=%d, cleanup must run on interrupt", l.ensured, l.cleaned)
	}
}

func TestPlayListWorkingCopyUnaffectedByQueue(t *testing.T) {
	p := &fakePlayer{}
	m := newPlaybackManager(false, p, &fakeLyrics{}, nil, tr("QueueTrack"))

	working := []track.Track{tr("P1"), tr("P2")}
	if err := m.PlayList(context.Background(), working); err != nil {
		t.Fatalf("PlayList: %v", err)
	}

	if len(p.played) != 2 || p.played[0] != "url-P1" {
		t.Errorf("played = %v, want playlist tracks", p.played)
	}
	if !equalTitles(m.Tracks(), "QueueTrack") {
		t.Errorf("queue changed: %v", titles(m.Tracks()))
	}
}

func TestUpNextProjection(t *testing.T) {
	list := []track.Track{tr("A"), tr("B"), tr("C")}
	order := []int{1, 2, 3}

	if n := upNext(list, order, 0, false); n == nil || n.Title != "B" {
		t.Errorf("upNext(0) = %v, want B", n)
	}
	// Last track, no loop: nothing up next.
	if n := upNext(list, order, 2, false); n != nil {
		t.Errorf("upNext(last, no loop) = %v, want nil", n)
	}
	// Last track with loop wraps to the first.
	if n := upNext(list, order, 2, true); n == nil || n.Title != "A" {
		t.Errorf("upNext(last, loop) = %v, want A", n)
	}
	// Looping single-track selection shows itself.
	if n := upNext(list, []int{2}, 0, true); n == nil || n.Title != "B" {
		t.Errorf("upNext(single, loop) = %v, want B", n)
	}
}
