package lrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(total uint64) TimeStamp {
	return FromMillis(total)
}

func TestTokenizeLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []Token
	}{
		{
			name: "metadata",
			line: "[ar: Test Artist]",
			want: []Token{metadataToken("ar", "Test Artist")},
		},
		{
			name: "metadata with surrounding whitespace",
			line: "   [ti:   Song Title]  ",
			want: []Token{metadataToken("ti", "Song Title")},
		},
		{
			name: "metadata value keeps inner brackets",
			line: "[ti: Part [Live]]",
			want: []Token{metadataToken("ti", "Part [Live]")},
		},
		{
			name: "metadata without space after colon is plain text",
			line: "[ar:Someone]",
			want: []Token{textToken("[ar:Someone]")},
		},
		{
			name: "simple lyric line",
			line: "[00:12.34]First line",
			want: []Token{timestampToken(at(12_340)), textToken("First line")},
		},
		{
			name: "stamp without fraction",
			line: "[01:02]x",
			want: []Token{timestampToken(at(62_000)), textToken("x")},
		},
		{
			name: "single digit minutes and seconds",
			line: "[1:2.5]x",
			want: []Token{timestampToken(at(62_500)), textToken("x")},
		},
		{
			name: "multiple leading stamps",
			line: "[00:05.00][00:10.00]Chorus",
			want: []Token{
				timestampToken(at(5_000)),
				timestampToken(at(10_000)),
				textToken("Chorus"),
			},
		},
		{
			name: "enhanced stamps interleave with text",
			line: "[00:01.50]Hello <00:02.00>world",
			want: []Token{
				timestampToken(at(1_500)),
				textToken("Hello "),
				enhancedToken(at(2_000)),
				textToken("world"),
			},
		},
		{
			name: "enhanced before standard stays in source order",
			line: "<00:01.00>a[00:02.00]b",
			want: []Token{
				enhancedToken(at(1_000)),
				textToken("a"),
				timestampToken(at(2_000)),
				textToken("b"),
			},
		},
		{
			name: "stamp only",
			line: "[00:30.00]",
			want: []Token{timestampToken(at(30_000))},
		},
		{
			name: "bare text",
			line: "  no stamps here  ",
			want: []Token{textToken("no stamps here")},
		},
		{
			name: "over-long fraction is not a stamp",
			line: "[99:99.12345]text",
			want: []Token{textToken("[99:99.12345]text")},
		},
		{
			name: "three digit minutes is not a stamp",
			line: "[100:00]x",
			want: []Token{textToken("[100:00]x")},
		},
		{
			name: "out of range values are accepted as written",
			line: "[99:99.99]x",
			want: []Token{
				timestampToken(TimeStamp{Minutes: 99, Seconds: 99, Milliseconds: 990}),
				textToken("x"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TokenizeLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenizeLine_Blank(t *testing.T) {
	for _, line := range []string{"", "   ", "\t"} {
		got, err := TokenizeLine(line)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestTokenize_OneEntryPerLine(t *testing.T) {
	text := "[ar: A]\n\n[00:01.00]one\nplain"

	lines, err := Tokenize(text)
	require.NoError(t, err)
	require.Len(t, lines, 4)

	assert.Equal(t, []Token{metadataToken("ar", "A")}, lines[0])
	assert.Empty(t, lines[1])
	assert.Equal(t, []Token{timestampToken(at(1_000)), textToken("one")}, lines[2])
	assert.Equal(t, []Token{textToken("plain")}, lines[3])
}

func TestTokenize_CRLF(t *testing.T) {
	lines, err := Tokenize("[00:01.00]a\r\n[00:02.00]b\r\n")
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, textToken("a"), lines[0][1])
	assert.Equal(t, textToken("b"), lines[1][1])
}

func TestTokenize_ByteOrderMark(t *testing.T) {
	lines, err := Tokenize("\ufeff[ar: Someone]\n")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, []Token{metadataToken("ar", "Someone")}, lines[0])
}

func TestTokenize_Empty(t *testing.T) {
	lines, err := Tokenize("")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestTokenizeLine_NonASCIIDigits(t *testing.T) {
	tests := []struct {
		name string
		line string
		raw  string
	}{
		{"arabic-indic minutes and seconds", "[٠١:٠٢]bad", "[٠١:٠٢]"},
		{"fullwidth digits", "[１２:３４]x", "[１２:３４]"},
		{"fraction digit", "[00:01.٥]x", "[00:01.٥]"},
		{"enhanced stamp", "[00:01.00]a <00:0١>b", "<00:0١>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TokenizeLine(tt.line)
			assert.Nil(t, got)
			require.ErrorIs(t, err, ErrInvalidTimestamp)

			var tsErr *InvalidTimestampError
			require.ErrorAs(t, err, &tsErr)
			assert.Equal(t, tt.raw, tsErr.Raw)
		})
	}
}

func TestTokenizeLine_LettersAreNotStamps(t *testing.T) {
	got, err := TokenizeLine("[0a:01]x")
	require.NoError(t, err)
	assert.Equal(t, []Token{textToken("[0a:01]x")}, got)
}

func TestTokenizeLine_MetadataUnicodeSpace(t *testing.T) {
	got, err := TokenizeLine("[ti:\u00a0Song]")
	require.NoError(t, err)
	assert.Equal(t, []Token{metadataToken("ti", "Song")}, got)
}
