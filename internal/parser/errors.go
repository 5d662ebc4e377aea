package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFirstLine is returned for an empty message or a blank header line.
	ErrMissingFirstLine = errors.New("missing first line")
	// ErrMissingToken is returned when a positional token is absent.
	ErrMissingToken = errors.New("missing token")
	// ErrBadNumber is returned when a required numeric token cannot be parsed.
	ErrBadNumber = errors.New("bad number")
	// ErrBadDate is returned when the date line matches none of the configured layouts.
	ErrBadDate = errors.New("bad date")
)

// MalformedRecordError carries the offending line of a message that could not be parsed.
type MalformedRecordError struct {
	LineNo int
	Line   string
	Cause  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at line %d %q: %v", e.LineNo, e.Line, e.Cause)
}

func (e *MalformedRecordError) Unwrap() error { return e.Cause }
