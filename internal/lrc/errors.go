package lrc

import "errors"

// ErrInvalidTimestamp matches any *InvalidTimestampError via errors.Is.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// InvalidTimestampError reports a bracket that had the shape of a
// timestamp but whose numeric groups could not be parsed. Raw holds the
// offending snippet for display.
type InvalidTimestampError struct {
	Raw string
}

func (e *InvalidTimestampError) Error() string {
	return "invalid timestamp: " + e.Raw
}

func (e *InvalidTimestampError) Is(target error) bool {
	return target == ErrInvalidTimestamp
}
