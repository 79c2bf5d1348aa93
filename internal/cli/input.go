package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/zingytomato/harmony/internal/store"
	"github.com/zingytomato/harmony/internal/style"
)

// LineReader prompts for one line of input.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// PromptReader reads lines from a terminal, printing a styled prompt first.
type PromptReader struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPromptReader(in io.Reader, out io.Writer) *PromptReader {
	return &PromptReader{in: bufio.NewReader(in), out: out}
}

func (r *PromptReader) ReadLine(prompt string) (string, error) {
	fmt.Fprintf(r.out, "\n%s", style.Title.Render(prompt))
	line, err := r.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}

// pickPlaylistName presents an interactive playlist selector.
func pickPlaylistName(rows []store.PlaylistRow) (string, error) {
	options := lo.Map(rows, func(r store.PlaylistRow, _ int) huh.Option[string] {
		label := fmt.Sprintf("%s (%d tracks, created %s)", r.Name, len(r.Tracks), humanize.Time(r.CreatedAt))
		return huh.NewOption(label, r.Name)
	})

	var name string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Add to which playlist?").
			Options(options...).
			Value(&name),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return name, nil
}
