// Package player hands playback to an external mpv process.
package player

import (
	"context"
	"fmt"
	"os"

	"github.com/GiGurra/cmder"
)

// Player plays one stream URL to completion. Implementations block until
// the player exits or ctx is cancelled; any returned error is treated by
// callers as "track finished", never as fatal.
type Player interface {
	Play(ctx context.Context, url, subtitlePath, statusMsg string) error
}

// MPV invokes the mpv binary with the terminal attached so its OSD bar and
// keyboard controls (seek, next-track via q) work as usual.
type MPV struct {
	Binary string
}

// NewMPV returns an MPV player using the mpv found on PATH.
func NewMPV() *MPV {
	return &MPV{Binary: "mpv"}
}

func (m *MPV) Play(ctx context.Context, url, subtitlePath, statusMsg string) error {
	args := []string{
		m.Binary,
		"--no-video",
		"--term-osd-bar",
		"--no-resume-playback",
	}
	if subtitlePath != "" {
		args = append(args, "--sub-file="+subtitlePath)
	}
	if statusMsg != "" {
		args = append(args, "--term-status-msg="+statusMsg)
	}
	args = append(args, url)

	result := cmder.New(args...).
		WithStdIn(os.Stdin).
		WithStdOut(os.Stdout).
		WithStdErr(os.Stderr).
		Run(ctx)
	if result.Err != nil {
		return fmt.Errorf("mpv: %w", result.Err)
	}
	return nil
}
