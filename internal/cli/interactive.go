package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zingytomato/harmony/internal/indexexpr"
	"github.com/zingytomato/harmony/internal/queue"
	"github.com/zingytomato/harmony/internal/spotify"
	"github.com/zingytomato/harmony/internal/style"
)

const mainPrompt = "Search/Add to queue [(P)lay, (S)how queue, (Q)uit, (E)dit, (C)lear, (A)dd to playlist, (V)iew playlists]: "

// Interactive runs the main command loop until quit, EOF or interrupt.
// No single command failure ends the session.
func (a *App) Interactive(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := a.Input.ReadLine(mainPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := a.safeDispatch(ctx, line); err != nil {
			if errors.Is(err, errQuit) || ctx.Err() != nil {
				return nil
			}
			a.printError(err.Error())
		}
	}
}

// safeDispatch contains a panicking command to the command that raised it.
func (a *App) safeDispatch(ctx context.Context, line string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()
	return a.dispatch(ctx, line)
}

// dispatch classifies one line of input: a command letter, a URL, an
// index expression, or a free-text search.
func (a *App) dispatch(ctx context.Context, input string) error {
	switch strings.ToLower(input) {
	case "q":
		return errQuit
	case "p":
		return a.playQueue(ctx, a.Queue.PlayAll)
	case "s":
		a.Queue.Show()
		return nil
	case "c":
		if err := a.Queue.Clear(); errors.Is(err, queue.ErrEmpty) {
			a.printError("Queue is empty!")
		}
		return nil
	case "e":
		return a.editQueue(ctx)
	case "a":
		return a.addQueueToPlaylist()
	case "v":
		return a.Playlists.Menu(ctx)
	}

	if spotify.IsURL(input) {
		return a.importURL(ctx, input)
	}

	if indices, ok := indexexpr.Parse(input); ok {
		return a.playQueue(ctx, func(ctx context.Context) error {
			if len(indices) == 1 {
				return a.Queue.PlayIndex(ctx, indices[0])
			}
			return a.Queue.PlayIndexes(ctx, indices)
		})
	}

	return a.searchAndPick(ctx, input)
}

// playQueue runs a playback entry point, downgrading the empty-queue
// error to a message.
func (a *App) playQueue(ctx context.Context, play func(context.Context) error) error {
	if err := play(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		if errors.Is(err, queue.ErrEmpty) {
			a.printError("Queue is empty!")
			return nil
		}
		a.printError(err.Error())
	}
	return nil
}

// editQueue is the queue edit sub-loop: remove, move, shuffle, loop and
// lyrics toggles.
func (a *App) editQueue(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		if a.Queue.IsEmpty() {
			a.printError("Queue is empty!")
			return nil
		}

		line, err := a.Input.ReadLine("Edit the queue [(R)emove, (M)ove, (S)huffle, (B)ack, (L)oop, (D)isable Lyrics]: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "b":
			return nil

		case "l":
			if a.Queue.ToggleLoop() {
				fmt.Fprintf(a.Out, "\n%s\n", style.Success.Render("Queue loop enabled!"))
			} else {
				a.printError("Queue loop disabled!")
			}

		case "d":
			if a.Queue.ToggleSyncedLyrics() {
				fmt.Fprintf(a.Out, "\n%s\n", style.Success.Render("Enabled Synced lyrics!"))
			} else {
				a.printError("Disabled Synced lyrics!")
			}

		case "r":
			input, err := a.Input.ReadLine(fmt.Sprintf("Pick [1-%d, (B)ack] to remove: ", a.Queue.Len()))
			if err != nil {
				return nil
			}
			input = strings.TrimSpace(input)
			if strings.EqualFold(input, "b") {
				continue
			}
			indices, ok := indexexpr.Parse(input)
			if !ok {
				a.printError("Invalid input!")
				continue
			}
			if err := a.Queue.Remove(indices); err != nil {
				a.printError("Index out of range!")
			}

		case "s":
			_ = a.Queue.Shuffle()

		case "m":
			from, ok := a.readQueueIndex("Pick [1-%d, (B)ack] to move: ")
			if !ok {
				continue
			}
			to, ok := a.readQueueIndex("Pick [1-%d, (B)ack] to move to: ")
			if !ok {
				continue
			}
			if err := a.Queue.Move(from, to); err != nil {
				a.printError("Track index out of range!")
			}

		default:
			a.printError("Invalid option entered!")
		}
	}
}

// readQueueIndex prompts for one queue index; false means back out.
func (a *App) readQueueIndex(promptFmt string) (int, bool) {
	input, err := a.Input.ReadLine(fmt.Sprintf(promptFmt, a.Queue.Len()))
	if err != nil {
		return 0, false
	}
	input = strings.TrimSpace(input)
	if strings.EqualFold(input, "b") {
		return 0, false
	}
	n, ok := indexexpr.ParseIndex(input)
	if !ok {
		a.printError("Invalid input!")
		return 0, false
	}
	return n, true
}

// addQueueToPlaylist appends every queued track to a chosen playlist.
func (a *App) addQueueToPlaylist() error {
	if a.Queue.IsEmpty() {
		a.printError("Queue is empty!")
		return nil
	}

	name, ok, err := a.choosePlaylist()
	if err != nil || !ok {
		return err
	}

	for _, t := range a.Queue.Tracks() {
		if err := a.Store.AppendToPlaylist(name, t); err != nil {
			return fmt.Errorf("add to playlist: %w", err)
		}
	}
	fmt.Fprintf(a.Out, "\n%s\n", style.Success.Render(fmt.Sprintf("Added %d track(s) to %s", a.Queue.Len(), name)))
	return nil
}

// choosePlaylist picks a playlist name; ok is false when there is nothing
// to pick or the user backed out.
func (a *App) choosePlaylist() (string, bool, error) {
	rows, err := a.Store.ListPlaylists()
	if err != nil {
		return "", false, fmt.Errorf("list playlists: %w", err)
	}
	if len(rows) == 0 {
		a.printError("No playlists!")
		return "", false, nil
	}

	pick := a.PickPlaylist
	if pick == nil {
		pick = pickPlaylistName
	}
	name, err := pick(rows)
	if err != nil {
		return "", false, nil
	}
	return name, true, nil
}

// importURL adds the tracks behind a Spotify URL to the queue.
func (a *App) importURL(ctx context.Context, input string) error {
	if !a.Config.HasSpotify() {
		a.printError("Spotify credentials are not configured!")
		return nil
	}

	switch {
	case spotify.TrackID(input) != "":
		t, err := a.Importer.ImportTrack(ctx, spotify.TrackID(input))
		if err != nil {
			return fmt.Errorf("import track: %w", err)
		}
		a.Queue.Add(t)

	case spotify.AlbumID(input) != "":
		tracks, err := a.Importer.ImportAlbum(ctx, spotify.AlbumID(input))
		if err != nil {
			return fmt.Errorf("import album: %w", err)
		}
		a.Queue.Add(tracks...)

	case spotify.PlaylistID(input) != "":
		tracks, err := a.Importer.ImportPlaylist(ctx, spotify.PlaylistID(input))
		if err != nil {
			return fmt.Errorf("import playlist: %w", err)
		}
		a.Queue.Add(tracks...)

	default:
		a.printError("Unsupported URL!")
	}
	return nil
}
