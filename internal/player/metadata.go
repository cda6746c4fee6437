package player

import (
	"net/url"
	"path/filepath"

	"github.com/godbus/dbus/v5"

	"karolbroda.com/karaoke/internal/track"
)

func infoFromMetadata(metadata map[string]dbus.Variant) *track.Info {
	return &track.Info{
		Title:      extractString(metadata, "xesam:title"),
		Artist:     extractArtist(metadata, "xesam:artist"),
		Album:      extractString(metadata, "xesam:album"),
		ArtworkURL: extractString(metadata, "mpris:artUrl"),
		TrackID:    extractTrackID(metadata, "mpris:trackid"),
		DurationMs: extractDurationMillis(metadata, "mpris:length"),
		Path:       pathFromURL(extractString(metadata, "xesam:url")),
	}
}

func extractString(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	text, _ := variant.Value().(string)
	return text
}

// some players publish the track id as an object path, others as a string
func extractTrackID(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	switch typed := variant.Value().(type) {
	case dbus.ObjectPath:
		return string(typed)
	case string:
		return typed
	default:
		return ""
	}
}

func extractArtist(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	switch typed := variant.Value().(type) {
	case []string:
		if len(typed) > 0 {
			return typed[0]
		}
		return ""
	case string:
		return typed
	default:
		return ""
	}
}

func extractDurationMillis(metadata map[string]dbus.Variant, key string) uint64 {
	variant, exists := metadata[key]
	if !exists {
		return 0
	}

	switch typed := variant.Value().(type) {
	case int64:
		return microsToMillis(typed)
	case uint64:
		return typed / 1_000
	default:
		return 0
	}
}

// pathFromURL returns the local path of a file:// url, or "" for anything
// else (streams, http urls).
func pathFromURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "file" || u.Path == "" {
		return ""
	}
	if u.Host != "" && u.Host != "localhost" {
		return ""
	}

	return filepath.FromSlash(u.Path)
}
