package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/adrg/xdg"
	log "github.com/sirupsen/logrus"

	"github.com/zingytomato/harmony/internal/cli"
	"github.com/zingytomato/harmony/internal/config"
	"github.com/zingytomato/harmony/internal/lyrics"
	"github.com/zingytomato/harmony/internal/player"
	"github.com/zingytomato/harmony/internal/playlists"
	"github.com/zingytomato/harmony/internal/queue"
	"github.com/zingytomato/harmony/internal/scrobble"
	"github.com/zingytomato/harmony/internal/search"
	"github.com/zingytomato/harmony/internal/spotify"
	"github.com/zingytomato/harmony/internal/store"
	"github.com/zingytomato/harmony/internal/track"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)
	if os.Getenv("HARMONY_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st, err := store.Open()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	var queued []track.Track
	if cfg.PersistentQueue {
		queued, err = st.LoadQueue()
		if err != nil {
			log.WithError(err).Warn("failed to load saved queue")
		}
	}

	catalog := search.NewClient()
	importer := spotify.NewClient(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, catalog)

	fetcher := lyrics.NewFetcher(filepath.Join(xdg.CacheHome, "harmony"))
	defer fetcher.Cleanup()

	var scrobbler scrobble.Scrobbler = scrobble.Noop{}
	if cfg.HasLastfm() {
		lf, err := scrobble.NewLastfm(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret,
			cfg.Lastfm.Username, cfg.Lastfm.Password)
		if err != nil {
			log.WithError(err).Warn("last.fm login failed, scrobbling disabled")
		} else {
			scrobbler = lf
		}
	}

	out := os.Stdout
	qm := queue.New(queue.Options{
		Tracks:       queued,
		Loop:         cfg.LoopQueue,
		SyncedLyrics: cfg.SyncedLyrics,
		Persistent:   cfg.PersistentQueue,
		Store:        st,
		Player:       player.NewMPV(),
		Lyrics:       fetcher,
		Scrobbler:    scrobbler,
		Out:          out,
	})
	defer qm.Flush()

	input := cli.NewPromptReader(os.Stdin, out)

	app := &cli.App{
		Config:    cfg,
		Queue:     qm,
		Playlists: playlists.New(st, qm, input, out),
		Store:     st,
		Catalog:   catalog,
		Importer:  importer,
		Input:     input,
		Out:       out,
	}

	if err := cli.NewRootCommand(app).ExecuteContext(ctx); err != nil {
		return err
	}

	if ctx.Err() != nil {
		fmt.Fprintln(out, "\nExiting...")
	}
	return nil
}
