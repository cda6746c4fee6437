package track

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

type Info struct {
	Title      string
	Artist     string
	Album      string
	DurationMs uint64
	ArtworkURL string
	TrackID    string
	// Path is the local audio file, when known. Lyrics are looked up next
	// to it.
	Path string
}

func (t *Info) IsValid() bool {
	if t == nil {
		return false
	}
	return t.Title != "" || t.Path != ""
}

func (t *Info) IsSameTrack(other *Info) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.TrackID != "" && other.TrackID != "" {
		return t.TrackID == other.TrackID
	}
	if t.Path != "" && other.Path != "" {
		return t.Path == other.Path
	}
	return t.Title == other.Title && t.Artist == other.Artist
}

// DisplayTitle renders "artist - title", or whichever part is known.
func (t *Info) DisplayTitle() string {
	if t == nil {
		return ""
	}
	switch {
	case t.Artist != "" && t.Title != "":
		return t.Artist + " - " + t.Title
	case t.Title != "":
		return t.Title
	case t.Path != "":
		return baseName(t.Path)
	default:
		return t.Artist
	}
}

// FromFile describes a local audio file using its embedded tags. Files
// without readable tags fall back to the file name as title.
func FromFile(path string) *Info {
	info := &Info{Path: path, Title: baseName(path)}

	f, err := os.Open(path)
	if err != nil {
		return info
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return info
	}

	if title := strings.TrimSpace(m.Title()); title != "" {
		info.Title = title
	}
	info.Artist = strings.TrimSpace(m.Artist())
	if info.Artist == "" {
		info.Artist = strings.TrimSpace(m.AlbumArtist())
	}
	info.Album = strings.TrimSpace(m.Album())

	return info
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
