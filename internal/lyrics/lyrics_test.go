package lyrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karolbroda.com/karaoke/internal/lrc"
)

const sample = `[ar: Test Artist]
[00:01.50]Hello <00:02.00>world
[00:05.00][00:05.00]Duplicate line`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Scenario(t *testing.T) {
	events, err := lrc.Parse(sample)
	require.NoError(t, err)

	lines := Load(events)
	assert.Equal(t, []Line{
		{TimestampMs: 1_500, Text: "Hello world"},
		{TimestampMs: 5_000, Text: "Duplicate line"},
		{TimestampMs: 5_000, Text: "Duplicate line"},
	}, lines)
}

func TestLoad_SortsAcrossEvents(t *testing.T) {
	events, err := lrc.Parse(`[00:30.00][00:10.00]Chorus
[00:20.00]Verse
[00:10.00]Same time, later in file`)
	require.NoError(t, err)

	lines := Load(events)
	require.Len(t, lines, 4)

	assert.Equal(t, Line{TimestampMs: 10_000, Text: "Chorus"}, lines[0])
	assert.Equal(t, Line{TimestampMs: 10_000, Text: "Same time, later in file"}, lines[1])
	assert.Equal(t, Line{TimestampMs: 20_000, Text: "Verse"}, lines[2])
	assert.Equal(t, Line{TimestampMs: 30_000, Text: "Chorus"}, lines[3])

	for i := 1; i < len(lines); i++ {
		assert.LessOrEqual(t, lines[i-1].TimestampMs, lines[i].TimestampMs)
	}
}

func TestLoad_NoEvents(t *testing.T) {
	assert.Empty(t, Load(nil))
	assert.Empty(t, Load([]lrc.Event{{Kind: lrc.EventMetadata, Key: "ar", Value: "x"}}))
}

func TestLoad_EmptyTextLine(t *testing.T) {
	events, err := lrc.Parse("[00:03.00]")
	require.NoError(t, err)
	assert.Equal(t, []Line{{TimestampMs: 3_000, Text: ""}}, Load(events))
}

func TestSidecarPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/music/song.flac", "/music/song.lrc"},
		{"/music/song.name.mp3", "/music/song.name.lrc"},
		{"/music/noext", "/music/noext.lrc"},
		{"relative/track.ogg", "relative/track.lrc"},
		{"/music/.hidden", "/music/.hidden.lrc"},
		{"/music/.hidden.mp3", "/music/.hidden.lrc"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SidecarPath(tt.in), tt.in)
	}
}

func TestLoadFor(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "song.flac")
	writeFile(t, filepath.Join(dir, "song.lrc"), sample)

	lines, err := LoadFor(audio)
	require.NoError(t, err)
	assert.Len(t, lines, 3)
	assert.Equal(t, "Hello world", lines[0].Text)
}

func TestLoadFor_NotFound(t *testing.T) {
	_, err := LoadFor(filepath.Join(t.TempDir(), "missing.mp3"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.lrc")
	writeFile(t, path, "[ar: Someone]\n[ti: Something]\nplain words\n")

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLoadFile_ReadError(t *testing.T) {
	// a directory in place of the sidecar exists but cannot be read
	path := filepath.Join(t.TempDir(), "song.lrc")
	require.NoError(t, os.Mkdir(path, 0o755))

	_, err := LoadFile(path)
	require.Error(t, err)

	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, path, readErr.Path)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestLoadFile_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.lrc")
	writeFile(t, path, "[00:01.00]ok\n[٠١:٠٢]bad\n")

	lines, err := LoadFile(path)
	assert.Nil(t, lines)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, path, parseErr.Path)
	assert.ErrorIs(t, err, lrc.ErrInvalidTimestamp)
	assert.Equal(t, "failed to parse lyrics: invalid timestamp: [٠١:٠٢]", Describe(err))
}

func TestParseError_Unwraps(t *testing.T) {
	_, cause := lrc.NewTimeStamp("00", "01", "12345")
	err := error(&ParseError{Path: "/x.lrc", Err: cause})

	assert.ErrorIs(t, err, lrc.ErrInvalidTimestamp)
	assert.Contains(t, err.Error(), "/x.lrc")
	assert.Contains(t, err.Error(), "00:01.12345")
}

func TestDescribe(t *testing.T) {
	_, cause := lrc.NewTimeStamp("0a", "01", "")

	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrNotFound, "no lyrics for this song"},
		{ErrEmpty, "lyrics file has no timed lines"},
		{&ParseError{Path: "p", Err: cause}, "failed to parse lyrics: invalid timestamp: 0a:01"},
		{&ReadError{Path: "p", Err: errors.New("denied")}, "could not read lyrics: denied"},
		{errors.New("other"), "other"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Describe(tt.err))
	}
}
