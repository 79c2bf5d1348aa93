// Package playlists manages named playlists: the playlist menu, selection
// and the edit session over a working copy of a playlist's tracks.
package playlists

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/zingytomato/harmony/internal/indexexpr"
	"github.com/zingytomato/harmony/internal/store"
	"github.com/zingytomato/harmony/internal/style"
	"github.com/zingytomato/harmony/internal/track"
)

var (
	// ErrCancelled reports that the user backed out of a selection.
	ErrCancelled = errors.New("cancelled")
	// ErrInvalidChoice reports a selection that names no playlist.
	ErrInvalidChoice = errors.New("invalid choice")
)

// Store is the playlist persistence surface. Satisfied by *store.Store.
type Store interface {
	CreatePlaylist(name string) error
	ListPlaylists() ([]store.PlaylistRow, error)
	PlaylistAt(index int) (*store.PlaylistRow, error)
	OverwritePlaylist(name string, tracks []track.Track) error
	DeletePlaylist(name string) error
}

// Queue is the playback surface the edit session drives. Satisfied by
// *queue.Manager.
type Queue interface {
	Add(tracks ...track.Track)
	ToggleLoop() bool
	PlayList(ctx context.Context, list []track.Track) error
	PlayListIndexes(ctx context.Context, list []track.Track, indices []int) error
}

// LineReader prompts for one line of input. The CLI supplies an
// interactive implementation; tests script it.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Manager drives the playlist menu and edit sessions. It holds the queue
// manager by reference so playlist playback goes through the single
// playback state machine.
type Manager struct {
	store Store
	queue Queue
	out   io.Writer
	input LineReader
}

func New(st Store, q Queue, input LineReader, out io.Writer) *Manager {
	return &Manager{store: st, queue: q, out: out, input: input}
}

// Menu runs the top-level playlist loop: list, create, remove, quit.
func (m *Manager) Menu(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		choice, err := m.input.ReadLine("Pick [(L)ist Playlists, (C)reate Playlist, (R)emove Playlist, (Q)uit]: ")
		if err != nil {
			return err
		}

		switch strings.ToLower(strings.TrimSpace(choice)) {
		case "l":
			row, err := m.ListAndSelect()
			switch {
			case errors.Is(err, ErrInvalidChoice):
				m.printError("Invalid input!")
			case errors.Is(err, ErrCancelled):
			case err != nil:
				return err
			case row != nil:
				if err := m.EditSession(ctx, row.Name, row.Tracks); err != nil {
					return err
				}
			}

		case "c":
			if err := m.Create(); err != nil && !errors.Is(err, ErrCancelled) {
				return err
			}

		case "r":
			row, err := m.ListAndSelect()
			switch {
			case errors.Is(err, ErrInvalidChoice):
				m.printError("Invalid input!")
			case errors.Is(err, ErrCancelled):
			case err != nil:
				return err
			case row != nil:
				if err := m.Delete(row.Name); err != nil {
					return err
				}
			}

		case "q":
			return nil

		default:
			m.printError("Invalid input!")
		}
	}
}

// Create prompts for a name and inserts an empty playlist. An empty name
// or the back sentinel cancels.
func (m *Manager) Create() error {
	name, err := m.input.ReadLine("Enter playlist name [(B)ack]: ")
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "b") {
		return ErrCancelled
	}
	if err := m.store.CreatePlaylist(name); err != nil {
		return fmt.Errorf("create playlist: %w", err)
	}
	fmt.Fprintf(m.out, "\n%s\n", style.Success.Render("Created playlist "+name+"!"))
	return nil
}

// Delete removes a playlist by name.
func (m *Manager) Delete(name string) error {
	if err := m.store.DeletePlaylist(name); err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	fmt.Fprintf(m.out, "\n%s\n", style.Error.Render("Deleted playlist "+name+"!"))
	return nil
}

// ListAndSelect prints every playlist and prompts for one. Returns
// (nil, nil) when there are no playlists, ErrCancelled on the back
// sentinel and ErrInvalidChoice when the input names no playlist.
func (m *Manager) ListAndSelect() (*store.PlaylistRow, error) {
	rows, err := m.store.ListPlaylists()
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	if len(rows) == 0 {
		m.printError("No playlists!")
		return nil, nil
	}

	fmt.Fprintf(m.out, "\n%s\n\n", style.Header.Render("Current Playlists:"))
	w := table.NewWriter()
	w.SetOutputMirror(m.out)
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"#", "Name", "Tracks", "Created"})
	for i, row := range rows {
		w.AppendRow(table.Row{i + 1, row.Name, len(row.Tracks), humanize.Time(row.CreatedAt)})
	}
	w.Render()

	choice, err := m.input.ReadLine(fmt.Sprintf("Pick [1-%d, (B)ack]: ", len(rows)))
	if err != nil {
		return nil, err
	}
	choice = strings.TrimSpace(choice)
	if strings.EqualFold(choice, "b") {
		return nil, ErrCancelled
	}

	idx, ok := indexexpr.ParseIndex(choice)
	if !ok {
		return nil, ErrInvalidChoice
	}
	row, err := m.store.PlaylistAt(idx - 1)
	if err != nil {
		return nil, fmt.Errorf("load playlist: %w", err)
	}
	if row == nil {
		return nil, ErrInvalidChoice
	}
	return row, nil
}

// EditSession runs the edit loop over a working copy of the playlist's
// tracks. Every mutation is written back to the store immediately, so the
// working copy and the stored playlist never diverge past one command.
func (m *Manager) EditSession(ctx context.Context, name string, tracks []track.Track) error {
	working := append([]track.Track(nil), tracks...)
	m.showTracks(name, working)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if len(working) == 0 {
			m.printError("Playlist is empty!")
			return nil
		}

		input, err := m.input.ReadLine("Edit the playlist [(P)lay, (R)emove, (M)ove, (SH)uffle, (B)ack, (L)oop, (A)dd to queue, (S)how tracks]: ")
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		indices, isExpr := indexexpr.Parse(input)

		switch {
		case isExpr:
			if err := m.queue.PlayListIndexes(ctx, working, indices); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				m.printError(err.Error())
			}
			continue

		case strings.EqualFold(input, "b"):
			return nil

		case strings.EqualFold(input, "p"):
			if err := m.queue.PlayList(ctx, working); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				m.printError(err.Error())
			}
			continue

		case strings.EqualFold(input, "s"):
			m.showTracks(name, working)
			continue

		case strings.EqualFold(input, "l"):
			if m.queue.ToggleLoop() {
				fmt.Fprintf(m.out, "\n%s\n", style.Success.Render("Queue loop enabled!"))
			} else {
				m.printError("Queue loop disabled!")
			}
			continue

		case strings.EqualFold(input, "a"):
			m.addSelectedToQueue(working)
			continue

		case strings.EqualFold(input, "r"):
			working = m.removeTracks(working)

		case strings.EqualFold(input, "m"):
			working = m.moveTrack(working)

		case strings.EqualFold(input, "sh"):
			rand.Shuffle(len(working), func(i, j int) {
				working[i], working[j] = working[j], working[i]
			})
			fmt.Fprintf(m.out, "\n%s\n", style.Success.Render("Shuffled the playlist!"))

		default:
			m.printError("Invalid option entered!")
			continue
		}

		if err := m.store.OverwritePlaylist(name, working); err != nil {
			return fmt.Errorf("save playlist: %w", err)
		}
	}
}

// addSelectedToQueue prompts for indices and copies only those entries
// from the working copy to the live queue, in ascending order.
func (m *Manager) addSelectedToQueue(working []track.Track) {
	input, err := m.input.ReadLine(fmt.Sprintf("Pick [1-%d, (B)ack] to add: ", len(working)))
	if err != nil || strings.EqualFold(strings.TrimSpace(input), "b") {
		return
	}

	indices, ok := indexexpr.Parse(strings.TrimSpace(input))
	if !ok {
		m.printError("Invalid input!")
		return
	}
	for _, idx := range indices {
		if idx < 1 || idx > len(working) {
			m.printError("Index out of range!")
			return
		}
	}

	sorted := append([]int(nil), indices...)
	sort.Ints(sorted)

	prev := 0
	for _, idx := range sorted {
		if idx == prev {
			continue
		}
		prev = idx
		m.queue.Add(working[idx-1])
	}
}

// removeTracks prompts for indices and removes them highest-first, the
// same batch rule the queue uses. Any invalid index aborts the whole
// batch before anything is removed.
func (m *Manager) removeTracks(working []track.Track) []track.Track {
	input, err := m.input.ReadLine(fmt.Sprintf("Pick [1-%d, (B)ack] to remove: ", len(working)))
	if err != nil || strings.EqualFold(strings.TrimSpace(input), "b") {
		return working
	}

	indices, ok := indexexpr.Parse(strings.TrimSpace(input))
	if !ok {
		m.printError("Invalid input!")
		return working
	}
	for _, idx := range indices {
		if idx < 1 || idx > len(working) {
			m.printError("Index out of range!")
			return working
		}
	}

	sorted := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	prev := 0
	for _, idx := range sorted {
		if idx == prev {
			continue
		}
		prev = idx
		t := working[idx-1]
		fmt.Fprintf(m.out, "\n%s\n", style.Success.Render("Removed "+t.String()))
		working = append(working[:idx-1], working[idx:]...)
	}
	return working
}

// moveTrack prompts for source and destination and reinserts the track.
func (m *Manager) moveTrack(working []track.Track) []track.Track {
	from, err := m.readIndex(fmt.Sprintf("Pick [1-%d, (B)ack] to move: ", len(working)))
	if err != nil {
		if !errors.Is(err, ErrCancelled) {
			m.printError("Track index out of range!")
		}
		return working
	}
	to, err := m.readIndex(fmt.Sprintf("Pick [1-%d, (B)ack] to move to: ", len(working)))
	if err != nil {
		if !errors.Is(err, ErrCancelled) {
			m.printError("Track index out of range!")
		}
		return working
	}
	if from < 1 || from > len(working) || to < 1 || to > len(working) {
		m.printError("Track index out of range!")
		return working
	}

	t := working[from-1]
	working = append(working[:from-1], working[from:]...)
	rest := append([]track.Track(nil), working[to-1:]...)
	working = append(append(working[:to-1], t), rest...)

	fmt.Fprintf(m.out, "\n%s\n", style.Success.Render(fmt.Sprintf("Moved track to position %d", to)))
	return working
}

func (m *Manager) readIndex(prompt string) (int, error) {
	input, err := m.input.ReadLine(prompt)
	if err != nil {
		return 0, err
	}
	input = strings.TrimSpace(input)
	if strings.EqualFold(input, "b") {
		return 0, ErrCancelled
	}
	n, ok := indexexpr.ParseIndex(input)
	if !ok {
		return 0, ErrInvalidChoice
	}
	return n, nil
}

func (m *Manager) showTracks(name string, tracks []track.Track) {
	fmt.Fprintf(m.out, "\n%s\n", style.Header.Render("Contents of: "+name))
	for i, t := range tracks {
		fmt.Fprintf(m.out, "%s. %s - %s\n",
			style.Index.Render(fmt.Sprintf("%d", i+1)),
			style.Title.Render(t.Title),
			style.Artist.Render(t.Artist),
		)
	}
}

func (m *Manager) printError(msg string) {
	fmt.Fprintf(m.out, "\n%s\n", style.Error.Render(msg))
}
