package lyrics

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the audio file has no .lrc sidecar. It is an
	// expected outcome, not a failure.
	ErrNotFound = errors.New("no lyrics file found")

	// ErrEmpty means the sidecar parsed but held no timed lines, e.g. a
	// file with only header directives.
	ErrEmpty = errors.New("lyrics file has no timed lines")
)

// ReadError reports a sidecar that exists but could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read lyrics %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ParseError reports a sidecar whose contents failed to parse. Err is the
// underlying lrc error and carries the offending snippet.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse lyrics %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Describe returns a short message for a load outcome, suitable for
// showing in place of the lyrics.
func Describe(err error) string {
	var parseErr *ParseError
	var readErr *ReadError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "no lyrics for this song"
	case errors.Is(err, ErrEmpty):
		return "lyrics file has no timed lines"
	case errors.As(err, &parseErr):
		return "failed to parse lyrics: " + parseErr.Err.Error()
	case errors.As(err, &readErr):
		return "could not read lyrics: " + readErr.Err.Error()
	default:
		return err.Error()
	}
}
