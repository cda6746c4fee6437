package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"karolbroda.com/karaoke/internal/lrc"
	"karolbroda.com/karaoke/internal/lyrics"
	"karolbroda.com/karaoke/internal/lyricsync"
)

var lyricsCmd = &cobra.Command{
	Use:   "lyrics",
	Short: "inspect lyrics files",
	Long:  `print, debug and validate .lrc files. paths may name the audio file or the .lrc file itself.`,
}

var lyricsPreviewCmd = &cobra.Command{
	Use:   "preview <audio|lrc>",
	Short: "print the timed lines in playback order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := loadLines(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, line := range lines {
			fmt.Fprintf(out, "[%s] %s\n", lrc.FromMillis(line.TimestampMs), line.Text)
		}

		return nil
	},
}

var lyricsEventsCmd = &cobra.Command{
	Use:   "events <audio|lrc>",
	Short: "print the parsed events including inline word timing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := lrcPathFor(args[0])

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open lyrics: %w", err)
		}
		defer f.Close()

		events, err := lrc.ParseReader(f)
		if err != nil {
			return &lyrics.ParseError{Path: path, Err: err}
		}

		printEvents(cmd.OutOrStdout(), events)
		return nil
	},
}

var lyricsAtCmd = &cobra.Command{
	Use:   "at <audio|lrc> <position>",
	Short: "show the active line at a position",
	Long:  `show which line is active at a playback position given as mm:ss[.fff] or milliseconds. the configured sync offset applies.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		positionMs, err := parsePosition(args[1])
		if err != nil {
			return err
		}

		lines, err := loadLines(args[0])
		if err != nil {
			return err
		}

		adjusted := lyricsync.AdjustPosition(positionMs, cfg.SyncOffsetMs)
		printActive(cmd.OutOrStdout(), lines, lyricsync.Update(lines, adjusted))
		return nil
	},
}

var lyricsCheckCmd = &cobra.Command{
	Use:   "check <audio>...",
	Short: "report the lyrics status of audio files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := checkFiles(cmd.OutOrStdout(), args)
		if failed > 0 {
			return fmt.Errorf("%d lyrics file(s) could not be loaded", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lyricsCmd)

	lyricsCmd.AddCommand(lyricsPreviewCmd)
	lyricsCmd.AddCommand(lyricsEventsCmd)
	lyricsCmd.AddCommand(lyricsAtCmd)
	lyricsCmd.AddCommand(lyricsCheckCmd)
}

func lrcPathFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".lrc") {
		return path
	}
	return lyrics.SidecarPath(path)
}

func loadLines(path string) ([]lyrics.Line, error) {
	lrcPath := lrcPathFor(path)

	lines, err := lyrics.LoadFile(lrcPath)
	if errors.Is(err, lyrics.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", err, lrcPath)
	}
	return lines, err
}

// parsePosition accepts mm:ss, mm:ss.f{1,3} or a plain millisecond count.
func parsePosition(raw string) (uint64, error) {
	raw = strings.TrimSpace(raw)

	minutes, rest, found := strings.Cut(raw, ":")
	if !found {
		ms, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid position %q, want mm:ss.fff or milliseconds", raw)
		}
		return ms, nil
	}

	seconds, frac, _ := strings.Cut(rest, ".")
	ts, err := lrc.NewTimeStamp(minutes, seconds, frac)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: %w", raw, err)
	}

	return ts.Millis(), nil
}

func printEvents(out io.Writer, events []lrc.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case lrc.EventMetadata:
			fmt.Fprintf(out, "meta   %s = %s\n", ev.Key, ev.Value)
		case lrc.EventLyric:
			stamps := make([]string, len(ev.Timestamps))
			for i, ts := range ev.Timestamps {
				stamps[i] = "[" + ts.String() + "]"
			}
			fmt.Fprintf(out, "lyric  %s %s\n", strings.Join(stamps, ""), ev.Text())

			if len(ev.Segments) > 1 || (len(ev.Segments) == 1 && ev.Segments[0].Time != nil) {
				for _, seg := range ev.Segments {
					at := strings.Repeat(" ", 11)
					if seg.Time != nil {
						at = "<" + seg.Time.String() + ">"
					}
					fmt.Fprintf(out, "         %s %q\n", at, seg.Text)
				}
			}
		}
	}
}

func printActive(out io.Writer, lines []lyrics.Line, active int) {
	if active == lyricsync.NoLine {
		if len(lines) == 0 {
			fmt.Fprintln(out, "no lines")
			return
		}
		fmt.Fprintf(out, "before the first line\nnext     [%s] %s\n", lrc.FromMillis(lines[0].TimestampMs), lines[0].Text)
		return
	}

	line := lines[active]
	fmt.Fprintf(out, "line %d of %d\ncurrent  [%s] %s\n", active+1, len(lines), lrc.FromMillis(line.TimestampMs), line.Text)
	if next := active + 1; next < len(lines) {
		fmt.Fprintf(out, "next     [%s] %s\n", lrc.FromMillis(lines[next].TimestampMs), lines[next].Text)
	}
}

// checkFiles prints one status row per audio file and returns how many
// had a sidecar that failed to load.
func checkFiles(out io.Writer, paths []string) int {
	failed := 0

	for _, path := range paths {
		lines, err := lyrics.LoadFile(lrcPathFor(path))

		var parseErr *lyrics.ParseError
		var readErr *lyrics.ReadError

		switch {
		case err == nil:
			fmt.Fprintf(out, "ok       %s (%d lines)\n", path, len(lines))
		case errors.Is(err, lyrics.ErrNotFound):
			fmt.Fprintf(out, "missing  %s\n", path)
		case errors.Is(err, lyrics.ErrEmpty):
			fmt.Fprintf(out, "empty    %s\n", path)
		case errors.As(err, &parseErr), errors.As(err, &readErr):
			failed++
			fmt.Fprintf(out, "error    %s: %s\n", path, lyrics.Describe(err))
		default:
			failed++
			fmt.Fprintf(out, "error    %s: %v\n", path, err)
		}
	}

	return failed
}
