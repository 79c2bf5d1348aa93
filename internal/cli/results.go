package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/zingytomato/harmony/internal/indexexpr"
	"github.com/zingytomato/harmony/internal/search"
	"github.com/zingytomato/harmony/internal/style"
	"github.com/zingytomato/harmony/internal/track"
)

// searchAndPick searches the catalog, shows the results and hands the
// picked tracks to the queue or a playlist.
func (a *App) searchAndPick(ctx context.Context, query string) error {
	fmt.Fprintf(a.Out, "\n%s\n", style.Header.Render("Searching for songs..."))

	results, err := a.Catalog.Search(ctx, query)
	if errors.Is(err, search.ErrNoResults) {
		a.printError(fmt.Sprintf("No results found for '%s'", query))
		return nil
	}
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	fmt.Fprintf(a.Out, "\n%s\n\n", style.Header.Render("Results for: "+query))
	a.renderResults(results)

	return a.pickResults(ctx, results)
}

func (a *App) renderResults(results []search.Result) {
	w := table.NewWriter()
	w.SetOutputMirror(a.Out)
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"#", "Title", "Artist", "Duration", ""})
	for i, r := range results {
		explicit := ""
		if r.Explicit {
			explicit = "(E)"
		}
		w.AppendRow(table.Row{
			i + 1,
			style.Title.Render(r.Track.Title),
			style.Artist.Render(r.Track.Artist),
			r.Track.Duration,
			explicit,
		})
	}
	w.Render()
}

// pickResults loops until the user picks tracks, backs out, or quits the
// whole program.
func (a *App) pickResults(ctx context.Context, results []search.Result) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		choice, err := a.Input.ReadLine(fmt.Sprintf(
			"Pick [1-%d, (B)ack, (Q)uit, (A)dd to Playlist] (space-separated for multiple): ", len(results)))
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		choice = strings.TrimSpace(choice)

		switch {
		case strings.EqualFold(choice, "q"):
			return errQuit

		case strings.EqualFold(choice, "b"):
			return nil

		case strings.EqualFold(choice, "a"):
			if done, err := a.addResultsToPlaylist(results); err != nil || done {
				return err
			}

		default:
			tracks, ok := selectTracks(results, choice)
			if !ok {
				a.printError("Invalid choice!")
				continue
			}
			a.Queue.Add(tracks...)
			return nil
		}
	}
}

// addResultsToPlaylist prompts for result indices and appends them to a
// chosen playlist. done is false when the user backed out of the index
// prompt and the picker should run again.
func (a *App) addResultsToPlaylist(results []search.Result) (bool, error) {
	choice, err := a.Input.ReadLine(fmt.Sprintf(
		"Pick [1-%d, (B)ack] to add (space-separated for multiple): ", len(results)))
	if err != nil {
		return true, nil
	}
	choice = strings.TrimSpace(choice)
	if strings.EqualFold(choice, "b") {
		return false, nil
	}

	tracks, ok := selectTracks(results, choice)
	if !ok {
		a.printError("Invalid input!")
		return false, nil
	}

	name, picked, err := a.choosePlaylist()
	if err != nil || !picked {
		return true, err
	}
	for _, t := range tracks {
		if err := a.Store.AppendToPlaylist(name, t); err != nil {
			return true, fmt.Errorf("add to playlist: %w", err)
		}
	}
	fmt.Fprintf(a.Out, "\n%s\n", style.Success.Render(fmt.Sprintf("Added %d track(s) to %s", len(tracks), name)))
	return true, nil
}

// selectTracks resolves an index expression against the result list. All
// indices must be in range.
func selectTracks(results []search.Result, input string) ([]track.Track, bool) {
	indices, ok := indexexpr.Parse(input)
	if !ok {
		return nil, false
	}
	out := make([]track.Track, 0, len(indices))
	for _, idx := range indices {
		if idx < 1 || idx > len(results) {
			return nil, false
		}
		out = append(out, results[idx-1].Track)
	}
	return out, true
}

// showTrending prints the global top chart.
func (a *App) showTrending(ctx context.Context) error {
	fmt.Fprintf(a.Out, "\n%s\n", style.Header.Render("Fetching trending tracks..."))

	entries, err := a.Catalog.Trending(ctx)
	if err != nil {
		return fmt.Errorf("trending: %w", err)
	}

	fmt.Fprintf(a.Out, "\n%s\n\n", style.Header.Render("Trending Tracks:"))
	w := table.NewWriter()
	w.SetOutputMirror(a.Out)
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"#", "Title", "Artist"})
	for i, e := range entries {
		w.AppendRow(table.Row{i + 1, style.Title.Render(e.Title), style.Artist.Render(e.Artist)})
	}
	w.Render()
	return nil
}
