// Package lyricsync decides which lyric line is active for a playback
// position. Every call recomputes from scratch, so seeks in either
// direction need no special handling.
package lyricsync

import (
	"math"

	"karolbroda.com/karaoke/internal/lyrics"
)

// NoLine is returned by Update when no line is active yet.
const NoLine = -1

// Update returns the index of the last line whose timestamp is at or
// before positionMs, or NoLine when lines is empty or playback has not
// reached the first line. lines must be sorted by timestamp.
func Update(lines []lyrics.Line, positionMs uint64) int {
	active := NoLine

	for i, line := range lines {
		if line.TimestampMs > positionMs {
			break
		}
		active = i
	}

	return active
}

type Role int

const (
	RolePast Role = iota
	RoleCurrent
	RoleUpcoming
	RoleFuture
)

func (r Role) String() string {
	switch r {
	case RolePast:
		return "past"
	case RoleCurrent:
		return "current"
	case RoleUpcoming:
		return "upcoming"
	case RoleFuture:
		return "future"
	default:
		return "unknown"
	}
}

// Classify returns the display role of line index given the active index
// from Update. With no active line the first line is upcoming.
func Classify(active, index int) Role {
	switch {
	case index < active:
		return RolePast
	case index == active:
		return RoleCurrent
	case index == active+1:
		return RoleUpcoming
	default:
		return RoleFuture
	}
}

// AdjustPosition shifts a playback position by a sync offset. Positive
// offsets make lyrics appear earlier. The result never goes below zero.
func AdjustPosition(positionMs uint64, offsetMs int64) uint64 {
	if offsetMs >= 0 {
		if positionMs > math.MaxUint64-uint64(offsetMs) {
			return math.MaxUint64
		}
		return positionMs + uint64(offsetMs)
	}

	back := uint64(-(offsetMs + 1)) + 1
	if back >= positionMs {
		return 0
	}
	return positionMs - back
}
