// Package queue owns the in-memory playback queue: mutation, persistence
// sync and playback orchestration.
package queue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/zingytomato/harmony/internal/player"
	"github.com/zingytomato/harmony/internal/scrobble"
	"github.com/zingytomato/harmony/internal/style"
	"github.com/zingytomato/harmony/internal/track"
)

// ErrEmpty is returned by operations that need a non-empty queue.
var ErrEmpty = errors.New("queue is empty")

// Store persists the queue wholesale. Satisfied by *store.Store.
type Store interface {
	SaveQueue([]track.Track) error
}

// SubtitleProvider produces and removes the subtitle artifact handed to
// the player. Satisfied by *lyrics.Fetcher.
type SubtitleProvider interface {
	EnsureSubtitle(ctx context.Context, query string, synced bool) string
	Cleanup()
}

// Manager is the single owner of the queue. Collaborators that need the
// queue hold a reference to the Manager, never a second copy of the list.
type Manager struct {
	tracks []track.Track

	loop         bool
	syncedLyrics bool
	persistent   bool

	store     Store
	player    player.Player
	lyrics    SubtitleProvider
	scrobbler scrobble.Scrobbler
	out       io.Writer
}

// Options configures a Manager. Tracks seeds the queue (the stored queue
// from a previous session when persistence is on).
type Options struct {
	Tracks       []track.Track
	Loop         bool
	SyncedLyrics bool
	Persistent   bool

	Store     Store
	Player    player.Player
	Lyrics    SubtitleProvider
	Scrobbler scrobble.Scrobbler
	Out       io.Writer
}

func New(opts Options) *Manager {
	scrobbler := opts.Scrobbler
	if scrobbler == nil {
		scrobbler = scrobble.Noop{}
	}
	return &Manager{
		tracks:       append([]track.Track(nil), opts.Tracks...),
		loop:         opts.Loop,
		syncedLyrics: opts.SyncedLyrics,
		persistent:   opts.Persistent,
		store:        opts.Store,
		player:       opts.Player,
		lyrics:       opts.Lyrics,
		scrobbler:    scrobbler,
		out:          opts.Out,
	}
}

// Add appends one or more tracks, confirming and persisting each append.
func (m *Manager) Add(tracks ...track.Track) {
	for _, t := range tracks {
		m.tracks = append(m.tracks, t)
		fmt.Fprintf(m.out, "\n%s\n", style.Success.Render("Added: "+t.String()))
		m.persist()
	}
}

// Tracks returns a copy of the queue in order.
func (m *Manager) Tracks() []track.Track {
	out := make([]track.Track, len(m.tracks))
	copy(out, m.tracks)
	return out
}

func (m *Manager) Len() int      { return len(m.tracks) }
func (m *Manager) IsEmpty() bool { return len(m.tracks) == 0 }

// Show prints the queue, reporting the empty state distinctly.
func (m *Manager) Show() {
	if m.IsEmpty() {
		fmt.Fprintf(m.out, "\n%s\n", style.Error.Render("Queue is empty!"))
		return
	}

	fmt.Fprintf(m.out, "\n%s\n", style.Header.Render("Current Queue:"))
	for i, t := range m.tracks {
		fmt.Fprintf(m.out, "%s. %s - %s (%s)\n",
			style.Index.Render(fmt.Sprintf("%d", i+1)),
			style.Title.Render(t.Title),
			style.Artist.Render(t.Artist),
			t.Duration,
		)
	}
}

// Clear empties the queue.
func (m *Manager) Clear() error {
	if m.IsEmpty() {
		return ErrEmpty
	}
	m.tracks = m.tracks[:0]
	fmt.Fprintf(m.out, "\n%s\n", style.Error.Render("Cleared the queue!"))
	m.persist()
	return nil
}

// Remove deletes the given 1-based indices. All indices are validated
// before anything is removed, and removal runs highest-first so earlier
// removals cannot shift the later ones. Persists once per batch.
func (m *Manager) Remove(indices []int) error {
	if m.IsEmpty() {
		return ErrEmpty
	}
	if len(indices) == 0 {
		return errors.New("no indices given")
	}
	for _, idx := range indices {
		if idx < 1 || idx > len(m.tracks) {
			return fmt.Errorf("index %d out of range", idx)
		}
	}

	sorted := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	prev := 0
	for _, idx := range sorted {
		if idx == prev {
			continue // duplicate index in input
		}
		prev = idx
		t := m.tracks[idx-1]
		fmt.Fprintf(m.out, "\n%s\n", style.Success.Render("Removed "+t.String()))
		m.tracks = append(m.tracks[:idx-1], m.tracks[idx:]...)
	}

	m.persist()
	return nil
}

// Move removes the track at from and reinserts it at to (both 1-based).
func (m *Manager) Move(from, to int) error {
	if m.IsEmpty() {
		return ErrEmpty
	}
	if from < 1 || from > len(m.tracks) {
		return fmt.Errorf("index %d out of range", from)
	}
	if to < 1 || to > len(m.tracks) {
		return fmt.Errorf("index %d out of range", to)
	}

	t := m.tracks[from-1]
	m.tracks = append(m.tracks[:from-1], m.tracks[from:]...)
	rest := append([]track.Track(nil), m.tracks[to-1:]...)
	m.tracks = append(append(m.tracks[:to-1], t), rest...)

	fmt.Fprintf(m.out, "\n%s\n", style.Success.Render(fmt.Sprintf("Moved track to position %d", to)))
	m.persist()
	return nil
}

// Shuffle randomizes the queue order in place.
func (m *Manager) Shuffle() error {
	if m.IsEmpty() {
		return ErrEmpty
	}
	rand.Shuffle(len(m.tracks), func(i, j int) {
		m.tracks[i], m.tracks[j] = m.tracks[j], m.tracks[i]
	})
	fmt.Fprintf(m.out, "\n%s\n", style.Success.Render("Shuffled the queue!"))
	m.persist()
	return nil
}

// ToggleLoop flips the loop flag and returns the new value. Session-scoped;
// the config file holds the default for the next launch.
func (m *Manager) ToggleLoop() bool {
	m.loop = !m.loop
	return m.loop
}

// ToggleSyncedLyrics flips the synced-lyrics flag and returns the new value.
func (m *Manager) ToggleSyncedLyrics() bool {
	m.syncedLyrics = !m.syncedLyrics
	return m.syncedLyrics
}

func (m *Manager) Loop() bool         { return m.loop }
func (m *Manager) SyncedLyrics() bool { return m.syncedLyrics }

// persist writes the queue back to the store. Storage failures are logged,
// never propagated: the in-memory queue stays authoritative for the session.
func (m *Manager) persist() {
	if !m.persistent || m.store == nil {
		return
	}
	if err := m.store.SaveQueue(m.tracks); err != nil {
		log.WithError(err).Warn("failed to persist queue")
	}
}

// Flush forces a final persistence write, used on shutdown.
func (m *Manager) Flush() {
	m.persist()
}
