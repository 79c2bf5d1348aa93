package lyrics

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Line is a single timestamped lyric line.
type Line struct {
	Time time.Duration
	Text string
}

// Matches timestamps like [00:12.34] or [00:12:34] or [00:12].
var timestampRe = regexp.MustCompile(`\[(\d+):(\d+)(?:[.:](\d+))?\]`)

// lastLineDisplay is how long the final cue stays on screen; LRC carries
// no end timestamps so the last one has nothing to inherit from.
const lastLineDisplay = 5 * time.Second

// ParseLRC parses LRC-format lyrics into timestamp-sorted lines.
// Metadata tags and unparseable lines are skipped.
func ParseLRC(r io.Reader) ([]Line, error) {
	var lines []Line
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		// LRC can stack several timestamps on one text: [00:12.34][00:45.67]Text
		matches := timestampRe.FindAllStringSubmatchIndex(raw, -1)
		if len(matches) == 0 {
			continue
		}

		lastMatch := matches[len(matches)-1]
		text := strings.TrimSpace(raw[lastMatch[1]:])

		for _, match := range matches {
			ts, err := parseTimestamp(raw[match[0]:match[1]])
			if err != nil {
				continue
			}
			lines = append(lines, Line{Time: ts, Text: text})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Time < lines[j].Time
	})

	return lines, nil
}

func parseTimestamp(s string) (time.Duration, error) {
	matches := timestampRe.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid timestamp: %s", s)
	}

	minutes, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.Atoi(matches[2])
	if err != nil {
		return 0, err
	}

	d := time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second

	if matches[3] != "" {
		// Fractional part: 2 digits are centiseconds, 3 are milliseconds.
		frac, err := strconv.Atoi(matches[3])
		if err != nil {
			return 0, err
		}
		switch len(matches[3]) {
		case 2:
			d += time.Duration(frac) * 10 * time.Millisecond
		case 3:
			d += time.Duration(frac) * time.Millisecond
		}
	}

	return d, nil
}

// WriteVTT writes lines as a WEBVTT file. Each cue ends where the next one
// starts. An empty line set still yields a valid (empty) WEBVTT document so
// the player never errors on the file.
func WriteVTT(w io.Writer, lines []Line) error {
	if _, err := io.WriteString(w, "WEBVTT\n\n"); err != nil {
		return err
	}

	for i, line := range lines {
		end := line.Time + lastLineDisplay
		if i+1 < len(lines) {
			end = lines[i+1].Time
		}
		_, err := fmt.Fprintf(w, "%s --> %s\n%s\n\n", vttTimestamp(line.Time), vttTimestamp(end), line.Text)
		if err != nil {
			return err
		}
	}
	return nil
}

func vttTimestamp(d time.Duration) string {
	totalMillis := d.Milliseconds()
	minutes := totalMillis / 60000
	seconds := (totalMillis % 60000) / 1000
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}
