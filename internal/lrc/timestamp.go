package lrc

import (
	"fmt"
	"strconv"
)

// TimeStamp is a point in a song as written in an LRC bracket.
// Milliseconds is always normalized to the range [0, 1000).
type TimeStamp struct {
	Minutes      uint32
	Seconds      uint32
	Milliseconds uint32
}

// NewTimeStamp builds a stamp from the digit groups captured out of a
// bracket. frac may be empty; otherwise its length decides the scale:
// "5" is 500ms, "05" is 50ms, "005" is 5ms.
func NewTimeStamp(minutes, seconds, frac string) (TimeStamp, error) {
	raw := minutes + ":" + seconds
	if frac != "" {
		raw += "." + frac
	}

	min, err := strconv.ParseUint(minutes, 10, 32)
	if err != nil {
		return TimeStamp{}, &InvalidTimestampError{Raw: raw}
	}
	sec, err := strconv.ParseUint(seconds, 10, 32)
	if err != nil {
		return TimeStamp{}, &InvalidTimestampError{Raw: raw}
	}

	var ms uint64
	if frac != "" {
		ms, err = strconv.ParseUint(frac, 10, 32)
		if err != nil {
			return TimeStamp{}, &InvalidTimestampError{Raw: raw}
		}
		switch len(frac) {
		case 1:
			ms *= 100
		case 2:
			ms *= 10
		case 3:
		default:
			return TimeStamp{}, &InvalidTimestampError{Raw: raw}
		}
	}

	return TimeStamp{
		Minutes:      uint32(min),
		Seconds:      uint32(sec),
		Milliseconds: uint32(ms),
	}, nil
}

// FromMillis splits an absolute millisecond count into a stamp.
func FromMillis(total uint64) TimeStamp {
	return TimeStamp{
		Minutes:      uint32(total / 60_000),
		Seconds:      uint32(total % 60_000 / 1_000),
		Milliseconds: uint32(total % 1_000),
	}
}

// Millis returns the absolute position in milliseconds.
func (t TimeStamp) Millis() uint64 {
	return uint64(t.Minutes)*60_000 + uint64(t.Seconds)*1_000 + uint64(t.Milliseconds)
}

// Compare returns -1, 0 or 1 ordering t against other by absolute time.
func (t TimeStamp) Compare(other TimeStamp) int {
	a, b := t.Millis(), other.Millis()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (t TimeStamp) Before(other TimeStamp) bool {
	return t.Compare(other) < 0
}

func (t TimeStamp) String() string {
	return fmt.Sprintf("%02d:%02d.%03d", t.Minutes, t.Seconds, t.Milliseconds)
}
