// Package cli is the interactive front end: the root command, the main
// command loop and the search result picker.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zingytomato/harmony/internal/config"
	"github.com/zingytomato/harmony/internal/queue"
	"github.com/zingytomato/harmony/internal/search"
	"github.com/zingytomato/harmony/internal/store"
	"github.com/zingytomato/harmony/internal/style"
	"github.com/zingytomato/harmony/internal/track"
)

// Version is the program version reported by --version.
const Version = "0.7.0"

// errQuit unwinds the command loop on an explicit quit.
var errQuit = errors.New("quit")

// Catalog is the search surface. Satisfied by *search.Client.
type Catalog interface {
	Search(ctx context.Context, query string) ([]search.Result, error)
	Trending(ctx context.Context) ([]search.TrendingEntry, error)
}

// Importer resolves external URLs into playable tracks. Satisfied by
// *spotify.Client.
type Importer interface {
	ImportTrack(ctx context.Context, id string) (track.Track, error)
	ImportAlbum(ctx context.Context, id string) ([]track.Track, error)
	ImportPlaylist(ctx context.Context, id string) ([]track.Track, error)
}

// PlaylistMenu is the playlist subcommand surface. Satisfied by
// *playlists.Manager.
type PlaylistMenu interface {
	Menu(ctx context.Context) error
}

// PlaylistStore is the slice of the store the picker needs for the
// add-to-playlist flow.
type PlaylistStore interface {
	ListPlaylists() ([]store.PlaylistRow, error)
	AppendToPlaylist(name string, t track.Track) error
}

// App bundles everything the command loop drives.
type App struct {
	Config    *config.Config
	Queue     *queue.Manager
	Playlists PlaylistMenu
	Store     PlaylistStore
	Catalog   Catalog
	Importer  Importer
	Input     LineReader
	Out       io.Writer

	// PickPlaylist selects a playlist by name; nil means the interactive
	// default. Tests script it.
	PickPlaylist func(rows []store.PlaylistRow) (string, error)
}

// NewRootCommand builds the root cobra command: an optional free-text
// query (or URL) followed by the interactive loop, plus the one-shot
// flags.
func NewRootCommand(app *App) *cobra.Command {
	var (
		trending      bool
		playlistMenu  bool
		version       bool
		disableLyrics bool
	)

	cmd := &cobra.Command{
		Use:           "harmony [query]",
		Short:         "An open source CLI music streamer based on mpv",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if disableLyrics && app.Queue.SyncedLyrics() {
				app.Queue.ToggleSyncedLyrics()
			}

			switch {
			case version:
				fmt.Fprintf(app.Out, "harmony %s\n", Version)
				return nil
			case trending:
				return app.showTrending(ctx)
			case playlistMenu:
				return app.Playlists.Menu(ctx)
			}

			if len(args) > 0 {
				if err := app.dispatch(ctx, strings.Join(args, " ")); err != nil {
					if errors.Is(err, errQuit) || ctx.Err() != nil {
						return nil
					}
					app.printError(err.Error())
				}
			}
			return app.Interactive(ctx)
		},
	}

	cmd.Flags().BoolVarP(&trending, "trending", "t", false, "Display the top 20 trending tracks worldwide")
	cmd.Flags().BoolVarP(&playlistMenu, "playlist", "p", false, "View existing playlists or create new ones")
	cmd.Flags().BoolVarP(&version, "version", "v", false, "Display the current version of the program")
	cmd.Flags().BoolVar(&disableLyrics, "disable-lyrics", false, "Disable synchronized lyrics display in mpv")

	return cmd
}

func (a *App) printError(msg string) {
	fmt.Fprintf(a.Out, "\n%s\n", style.Error.Render(msg))
}
