package lrc

import "strings"

type TokenKind int

const (
	TokenMetadata TokenKind = iota
	TokenTimestamp
	TokenEnhancedTimestamp
	TokenText
)

func (k TokenKind) String() string {
	switch k {
	case TokenMetadata:
		return "metadata"
	case TokenTimestamp:
		return "timestamp"
	case TokenEnhancedTimestamp:
		return "enhanced-timestamp"
	case TokenText:
		return "text"
	default:
		return "unknown"
	}
}

// Token is one lexical unit of a single LRC line. Which fields are set
// depends on Kind: Key/Value for metadata, Time for both timestamp kinds,
// Text for text.
type Token struct {
	Kind  TokenKind
	Key   string
	Value string
	Time  TimeStamp
	Text  string
}

func metadataToken(key, value string) Token {
	return Token{Kind: TokenMetadata, Key: key, Value: value}
}

func timestampToken(ts TimeStamp) Token {
	return Token{Kind: TokenTimestamp, Time: ts}
}

func enhancedToken(ts TimeStamp) Token {
	return Token{Kind: TokenEnhancedTimestamp, Time: ts}
}

func textToken(text string) Token {
	return Token{Kind: TokenText, Text: text}
}

// Segment is a run of lyric text. Time is non-nil when the run starts at
// an inline <mm:ss.xx> stamp.
type Segment struct {
	Time *TimeStamp
	Text string
}

type EventKind int

const (
	EventMetadata EventKind = iota
	EventLyric
)

// Event is one parsed LRC line. Metadata events carry Key and Value;
// lyric events carry one or more line Timestamps (the same text repeats
// at each) and the Segments that make up the text.
type Event struct {
	Kind       EventKind
	Key        string
	Value      string
	Timestamps []TimeStamp
	Segments   []Segment
}

// Text joins the segment texts without any inline stamps.
func (e Event) Text() string {
	if len(e.Segments) == 1 {
		return e.Segments[0].Text
	}
	var b strings.Builder
	for _, seg := range e.Segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}
