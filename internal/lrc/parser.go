// Package lrc parses LRC lyric files into timed events.
//
// A document is processed line by line. Each line is tokenized on its own
// and then parsed into at most one Event: a metadata directive such as
// [ar: Artist], or a lyric line carrying one or more [mm:ss.xx] stamps and
// optional inline <mm:ss.xx> word stamps. Lines without a leading standard
// stamp cannot be scheduled and are dropped.
package lrc

import (
	"fmt"
	"io"
)

// ParseTokens turns the tokens of one line into an event. ok is false when
// the line carries nothing schedulable (blank, bare text, or starting with
// an inline stamp).
func ParseTokens(tokens []Token) (ev Event, ok bool, err error) {
	if len(tokens) == 0 {
		return Event{}, false, nil
	}

	// first token wins for metadata lines, anything after it is discarded
	if first := tokens[0]; first.Kind == TokenMetadata {
		return Event{Kind: EventMetadata, Key: first.Key, Value: first.Value}, true, nil
	}

	var timestamps []TimeStamp
	i := 0
	for i < len(tokens) && tokens[i].Kind == TokenTimestamp {
		timestamps = append(timestamps, tokens[i].Time)
		i++
	}

	if len(timestamps) == 0 {
		return Event{}, false, nil
	}

	return Event{
		Kind:       EventLyric,
		Timestamps: timestamps,
		Segments:   buildSegments(tokens[i:]),
	}, true, nil
}

// buildSegments groups the tokens that follow the leading stamps. Text
// right after an inline stamp belongs to that stamp; other text collects
// into plain segments. Standard stamps found mid-line are ignored.
func buildSegments(tokens []Token) []Segment {
	var segments []Segment
	var buffer string

	for _, tok := range tokens {
		switch tok.Kind {
		case TokenEnhancedTimestamp:
			if buffer != "" {
				segments = append(segments, Segment{Text: buffer})
				buffer = ""
			}
			ts := tok.Time
			segments = append(segments, Segment{Time: &ts})

		case TokenText:
			if n := len(segments); n > 0 {
				last := &segments[n-1]
				if last.Time != nil && last.Text == "" {
					last.Text = tok.Text
					continue
				}
			}
			buffer += tok.Text
		}
	}

	if buffer != "" {
		segments = append(segments, Segment{Text: buffer})
	}

	return segments
}

// Parse tokenizes and parses a whole document. The first invalid
// timestamp aborts the parse; no partial result is returned.
func Parse(text string) ([]Event, error) {
	lines, err := Tokenize(text)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(lines))
	for _, tokens := range lines {
		ev, ok, err := ParseTokens(tokens)
		if err != nil {
			return nil, err
		}
		if ok {
			events = append(events, ev)
		}
	}

	return events, nil
}

// ParseReader reads r to the end and parses the result.
func ParseReader(r io.Reader) ([]Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read lrc data: %w", err)
	}
	return Parse(string(data))
}
