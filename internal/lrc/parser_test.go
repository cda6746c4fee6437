package lrc

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stamp(total uint64) *TimeStamp {
	ts := FromMillis(total)
	return &ts
}

func TestParse_Scenario(t *testing.T) {
	text := `[ar: Test Artist]
[00:01.50]Hello <00:02.00>world
[00:05.00][00:05.00]Duplicate line`

	events, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, Event{Kind: EventMetadata, Key: "ar", Value: "Test Artist"}, events[0])

	assert.Equal(t, Event{
		Kind:       EventLyric,
		Timestamps: []TimeStamp{at(1_500)},
		Segments: []Segment{
			{Text: "Hello "},
			{Time: stamp(2_000), Text: "world"},
		},
	}, events[1])

	assert.Equal(t, Event{
		Kind:       EventLyric,
		Timestamps: []TimeStamp{at(5_000), at(5_000)},
		Segments:   []Segment{{Text: "Duplicate line"}},
	}, events[2])
}

func TestParseTokens_MetadataFirstTokenWins(t *testing.T) {
	tokens := []Token{
		metadataToken("ti", "Title"),
		textToken("trailing junk"),
		timestampToken(at(1_000)),
	}

	ev, ok, err := ParseTokens(tokens)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Event{Kind: EventMetadata, Key: "ti", Value: "Title"}, ev)
}

func TestParseTokens_Unschedulable(t *testing.T) {
	tests := []struct {
		name   string
		tokens []Token
	}{
		{"empty", nil},
		{"bare text", []Token{textToken("hello")}},
		{"leading enhanced stamp", []Token{enhancedToken(at(1_000)), textToken("word")}},
		{"text before stamp", []Token{textToken("x"), timestampToken(at(1_000))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := ParseTokens(tt.tokens)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestParse_Segments(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []Segment
	}{
		{
			name: "plain text",
			line: "[00:01.00]just words",
			want: []Segment{{Text: "just words"}},
		},
		{
			name: "stamp without text",
			line: "[00:01.00]",
			want: nil,
		},
		{
			name: "word per stamp",
			line: "[00:01.00]<00:01.10>one <00:01.50>two",
			want: []Segment{
				{Time: stamp(1_100), Text: "one "},
				{Time: stamp(1_500), Text: "two"},
			},
		},
		{
			name: "plain run then timed word",
			line: "[00:01.00]a<00:02>b",
			want: []Segment{
				{Text: "a"},
				{Time: stamp(2_000), Text: "b"},
			},
		},
		{
			name: "back to back inline stamps leave the first empty",
			line: "[00:01.00]<00:01.10><00:01.20>word",
			want: []Segment{
				{Time: stamp(1_100)},
				{Time: stamp(1_200), Text: "word"},
			},
		},
		{
			name: "trailing inline stamp stays empty",
			line: "[00:01.00]word<00:03.00>",
			want: []Segment{
				{Text: "word"},
				{Time: stamp(3_000)},
			},
		},
		{
			name: "mid-line standard stamp is ignored",
			line: "[00:01.00]a[00:02.00]b",
			want: []Segment{{Text: "ab"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := Parse(tt.line)
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.Equal(t, EventLyric, events[0].Kind)
			assert.Equal(t, tt.want, events[0].Segments)
		})
	}
}

func TestParse_MidLineStampKeepsOnlyLeadingTimestamps(t *testing.T) {
	events, err := Parse("[00:01.00]a[00:02.00]b")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, []TimeStamp{at(1_000)}, events[0].Timestamps)
}

func TestParse_DropsUnschedulableLines(t *testing.T) {
	text := `
plain text line
<00:01.00>enhanced only
[ar:NoSpace]
[00:02.00]kept
`

	events, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "kept", events[0].Text())
}

func TestParse_MetadataOnly(t *testing.T) {
	text := "[ar: Someone]\n[ti: Something]\n[al: Somewhere]\n"

	events, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, events, 3)
	for _, ev := range events {
		assert.Equal(t, EventMetadata, ev.Kind)
	}
}

func TestParseReader(t *testing.T) {
	events, err := ParseReader(strings.NewReader("[00:10.00]First\r\n[00:20.00]Second\r\n"))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "First", events[0].Text())
	assert.Equal(t, "Second", events[1].Text())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestParseReader_ReadError(t *testing.T) {
	_, err := ParseReader(failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.False(t, errors.Is(err, ErrInvalidTimestamp))
}

func TestEvent_Text(t *testing.T) {
	ev := Event{
		Kind: EventLyric,
		Segments: []Segment{
			{Text: "Hello "},
			{Time: stamp(2_000), Text: "world"},
			{Time: stamp(2_500)},
			{Text: "!"},
		},
	}
	assert.Equal(t, "Hello world!", ev.Text())
	assert.Equal(t, "", Event{Kind: EventLyric}.Text())
}

func TestHeader(t *testing.T) {
	events, err := Parse(`[ti: Title]
[AR: Artist]
[al: Album]
[by: Someone]
[offset: +250]
[length: 03:45]
[re: editor]
[00:01.00]line`)
	require.NoError(t, err)

	meta := Header(events)
	assert.Equal(t, "Title", meta.Title)
	assert.Equal(t, "Artist", meta.Artist)
	assert.Equal(t, "Album", meta.Album)
	assert.Equal(t, "Someone", meta.Author)
	assert.Equal(t, int64(250), meta.OffsetMs)
	assert.Equal(t, "03:45", meta.Length)
	assert.Equal(t, "editor", meta.Tags["re"])
	assert.Len(t, meta.Tags, 7)
}

func TestHeader_NegativeAndInvalidOffset(t *testing.T) {
	meta := Header([]Event{{Kind: EventMetadata, Key: "offset", Value: "-120"}})
	assert.Equal(t, int64(-120), meta.OffsetMs)

	meta = Header([]Event{{Kind: EventMetadata, Key: "offset", Value: "soon"}})
	assert.Equal(t, int64(0), meta.OffsetMs)
}

func TestParse_InvalidTimestampAbortsDocument(t *testing.T) {
	events, err := Parse("[00:01.00]ok\n[٠١:٠٢]bad\n[00:03.00]later\n")
	assert.Nil(t, events)
	require.ErrorIs(t, err, ErrInvalidTimestamp)

	_, err = ParseReader(strings.NewReader("[00:01.00]a <00:0٢>b\n"))
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}
