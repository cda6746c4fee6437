// Package lyrics turns parsed LRC events into the sorted line list used
// for playback, and locates the .lrc sidecar of an audio file.
package lyrics

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"

	"karolbroda.com/karaoke/internal/lrc"
)

// Line is one scheduled lyric line. Lists of lines are sorted by
// TimestampMs and never modified after Load returns them.
type Line struct {
	TimestampMs uint64
	Text        string
}

// Load flattens lyric events into lines: one line per timestamp, with the
// text of all segments joined. Metadata events are dropped. Lines with
// equal timestamps keep their source order.
func Load(events []lrc.Event) []Line {
	var lines []Line

	for _, ev := range events {
		if ev.Kind != lrc.EventLyric {
			continue
		}
		text := ev.Text()
		for _, ts := range ev.Timestamps {
			lines = append(lines, Line{TimestampMs: ts.Millis(), Text: text})
		}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].TimestampMs < lines[j].TimestampMs
	})

	return lines
}

// SidecarPath returns the expected .lrc path for an audio file. A leading
// dot in the file name does not start an extension.
func SidecarPath(audioPath string) string {
	ext := filepath.Ext(audioPath)
	if ext == filepath.Base(audioPath) {
		ext = ""
	}
	return audioPath[:len(audioPath)-len(ext)] + ".lrc"
}

// LoadFor loads the lyrics that belong to audioPath. The error is one of
// ErrNotFound, ErrEmpty, *ReadError or *ParseError.
func LoadFor(audioPath string) ([]Line, error) {
	return LoadFile(SidecarPath(audioPath))
}

// LoadFile loads lyrics from an explicit .lrc path with the same error
// semantics as LoadFor.
func LoadFile(path string) ([]Line, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, &ReadError{Path: path, Err: err}
	}

	events, err := lrc.Parse(string(data))
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	lines := Load(events)
	if len(lines) == 0 {
		return nil, ErrEmpty
	}

	log.WithFields(log.Fields{
		"path":   path,
		"events": len(events),
		"lines":  len(lines),
	}).Debug("loaded lyrics")

	return lines, nil
}
