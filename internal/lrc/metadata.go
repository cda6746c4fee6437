package lrc

import (
	"strconv"
	"strings"
)

// Metadata is a read-only view over the header directives of a document.
// Playback never consumes it; it exists for display.
type Metadata struct {
	Title    string
	Artist   string
	Album    string
	Author   string
	Length   string
	OffsetMs int64
	Tags     map[string]string
}

// Header collects the metadata events of a parsed document. Keys are
// compared case-insensitively; when a key repeats the last value wins.
func Header(events []Event) Metadata {
	meta := Metadata{Tags: make(map[string]string)}

	for _, ev := range events {
		if ev.Kind != EventMetadata {
			continue
		}

		key := strings.ToLower(ev.Key)
		value := strings.TrimSpace(ev.Value)
		meta.Tags[key] = value

		switch key {
		case "ti":
			meta.Title = value
		case "ar":
			meta.Artist = value
		case "al":
			meta.Album = value
		case "by":
			meta.Author = value
		case "length":
			meta.Length = value
		case "offset":
			if n, err := strconv.ParseInt(strings.TrimPrefix(value, "+"), 10, 64); err == nil {
				meta.OffsetMs = n
			}
		}
	}

	return meta
}
