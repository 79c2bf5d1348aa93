package queue

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/zingytomato/harmony/internal/style"
	"github.com/zingytomato/harmony/internal/track"
)

// PlayAll plays the whole queue in order, wrapping to the first track when
// loop is enabled.
func (m *Manager) PlayAll(ctx context.Context) error {
	return m.PlayList(ctx, m.tracks)
}

// PlayIndex plays exactly one 1-based index. With loop enabled the same
// track replays until interrupted.
func (m *Manager) PlayIndex(ctx context.Context, index int) error {
	if m.IsEmpty() {
		return ErrEmpty
	}
	if index < 1 || index > len(m.tracks) {
		return fmt.Errorf("index %d out of range", index)
	}
	return m.playSequence(ctx, m.tracks, []int{index})
}

// PlayIndexes plays an explicit list of 1-based indices in the order given.
// With loop enabled the whole sequence repeats.
func (m *Manager) PlayIndexes(ctx context.Context, indices []int) error {
	return m.PlayListIndexes(ctx, m.tracks, indices)
}

// PlayList runs the playback state machine over an arbitrary track list,
// used by the playlist edit session against its working copy.
func (m *Manager) PlayList(ctx context.Context, list []track.Track) error {
	if len(list) == 0 {
		return ErrEmpty
	}
	order := make([]int, len(list))
	for i := range list {
		order[i] = i + 1
	}
	return m.playSequence(ctx, list, order)
}

// PlayListIndexes plays selected 1-based indices of an arbitrary list.
func (m *Manager) PlayListIndexes(ctx context.Context, list []track.Track, indices []int) error {
	if len(list) == 0 {
		return ErrEmpty
	}
	if len(indices) == 0 {
		return fmt.Errorf("no indices given")
	}
	return m.playSequence(ctx, list, indices)
}

// playSequence is the playback state machine. The selection is snapshotted
// so queue edits made through other paths cannot shift it mid-run.
// Out-of-range indices are reported and skipped. Player failures count as
// "track finished"; only context cancellation stops the machine.
func (m *Manager) playSequence(ctx context.Context, list []track.Track, order []int) error {
	snapshot := make([]track.Track, len(list))
	copy(snapshot, list)

	for {
		for pos, idx := range order {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if idx < 1 || idx > len(snapshot) {
				fmt.Fprintf(m.out, "\n%s\n", style.Error.Render(fmt.Sprintf("Index %d out of range!", idx)))
				continue
			}

			t := snapshot[idx-1]
			m.printNowPlaying(t, upNext(snapshot, order, pos, m.loop))
			m.playTrack(ctx, t, idx, len(snapshot))
		}

		if !m.loop || ctx.Err() != nil {
			break
		}
	}
	return ctx.Err()
}

// playTrack plays one track: subtitle artifact in, player invocation,
// guaranteed artifact cleanup on every exit path, scrobble on completion.
func (m *Manager) playTrack(ctx context.Context, t track.Track, position, total int) {
	subtitle := m.lyrics.EnsureSubtitle(ctx, t.Title+" - "+t.PrimaryArtist(), m.syncedLyrics)
	defer m.lyrics.Cleanup()

	status := fmt.Sprintf("Track Number: %d/%d", position, total)
	if err := m.player.Play(ctx, t.URL, subtitle, status); err != nil {
		if ctx.Err() != nil {
			return
		}
		// A player failure ends the track, never the session.
		log.WithError(err).WithField("track", t.String()).Debug("player exited with error")
		return
	}

	if ctx.Err() == nil {
		m.scrobbler.Scrobble(t.Artist, t.Title)
	}
}

func (m *Manager) printNowPlaying(t track.Track, next *track.Track) {
	fmt.Fprintf(m.out, "\n%s\n", style.Header.Render("Playing..."))
	fmt.Fprintf(m.out, "%s\n", style.Dim.Render("Controls: Next Track (Q), Exit (Ctrl + C), Seek with arrow keys"))
	if m.loop {
		fmt.Fprintf(m.out, "%s\n", style.Success.Render("Loop: Enabled"))
	}
	if next != nil {
		fmt.Fprintf(m.out, "\nUp Next: %s - %s\n",
			style.Title.Render(next.Title), style.Artist.Render(next.Artist))
	}
	fmt.Fprintf(m.out, "\nNow Playing: %s - %s\n",
		style.Title.Render(t.Title), style.Artist.Render(t.Artist))
}

// upNext computes the display-only lookahead: the next index in the
// selection, wrapping to the first when looping. A looping single-track
// selection is its own up-next. Never mutates state.
func upNext(list []track.Track, order []int, pos int, loop bool) *track.Track {
	next := -1
	switch {
	case pos+1 < len(order):
		next = order[pos+1]
	case loop:
		next = order[0]
	}
	if next < 1 || next > len(list) {
		return nil
	}
	t := list[next-1]
	return &t
}
