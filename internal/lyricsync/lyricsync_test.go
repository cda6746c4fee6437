package lyricsync

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"karolbroda.com/karaoke/internal/lyrics"
)

var song = []lyrics.Line{
	{TimestampMs: 1_500, Text: "Hello world"},
	{TimestampMs: 5_000, Text: "Duplicate line"},
	{TimestampMs: 5_000, Text: "Duplicate line"},
	{TimestampMs: 9_000, Text: "Last"},
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name     string
		position uint64
		want     int
	}{
		{"before first line", 0, NoLine},
		{"just before first line", 1_499, NoLine},
		{"exactly first line", 1_500, 0},
		{"between lines", 3_000, 0},
		{"equal timestamps pick the later line", 5_000, 2},
		{"exactly last line", 9_000, 3},
		{"past the end", 600_000, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Update(song, tt.position))
		})
	}
}

func TestUpdate_NoLines(t *testing.T) {
	assert.Equal(t, NoLine, Update(nil, 0))
	assert.Equal(t, NoLine, Update([]lyrics.Line{}, 10_000))
}

func TestUpdate_MonotonicPositionNeverMovesBack(t *testing.T) {
	prev := NoLine
	for pos := uint64(0); pos <= 12_000; pos += 50 {
		got := Update(song, pos)
		assert.GreaterOrEqual(t, got, prev, "position %d", pos)
		prev = got
	}
}

func TestUpdate_Seek(t *testing.T) {
	assert.Equal(t, 3, Update(song, 10_000))
	// seeking backwards recomputes without history
	assert.Equal(t, 0, Update(song, 2_000))
	assert.Equal(t, NoLine, Update(song, 100))
	assert.Equal(t, 2, Update(song, 7_000))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, RolePast, Classify(2, 0))
	assert.Equal(t, RolePast, Classify(2, 1))
	assert.Equal(t, RoleCurrent, Classify(2, 2))
	assert.Equal(t, RoleUpcoming, Classify(2, 3))
	assert.Equal(t, RoleFuture, Classify(2, 4))
}

func TestClassify_NoActiveLine(t *testing.T) {
	assert.Equal(t, RoleUpcoming, Classify(NoLine, 0))
	assert.Equal(t, RoleFuture, Classify(NoLine, 1))
	assert.Equal(t, RoleFuture, Classify(NoLine, 7))
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "past", RolePast.String())
	assert.Equal(t, "current", RoleCurrent.String())
	assert.Equal(t, "upcoming", RoleUpcoming.String())
	assert.Equal(t, "future", RoleFuture.String())
	assert.Equal(t, "unknown", Role(42).String())
}

func TestAdjustPosition(t *testing.T) {
	tests := []struct {
		pos    uint64
		offset int64
		want   uint64
	}{
		{10_000, 0, 10_000},
		{10_000, 250, 10_250},
		{10_000, -250, 9_750},
		{100, -250, 0},
		{250, -250, 0},
		{0, math.MinInt64, 0},
		{math.MaxUint64 - 1, 10, math.MaxUint64},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AdjustPosition(tt.pos, tt.offset), "%d%+d", tt.pos, tt.offset)
	}
}
