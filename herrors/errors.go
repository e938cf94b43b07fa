// Package herrors classifies the error kinds the driver (CLI/HTTP)
// needs to distinguish: bad invocation versus bad input data versus
// I/O versus decode failure.
package herrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind categorizes an Error the way the original HaError enum did,
// plus the two collaborator-facing kinds (IO, Serialization) spec.md
// adds for the snapshot format.
type Kind int

const (
	// Usage covers invalid CLI invocation, unparseable date/time/
	// length, unknown station, or "no route" where one was required.
	Usage Kind = iota
	// GTFS covers malformed or incomplete GTFS input.
	GTFS
	// IO covers snapshot/zip open, read, or write failures.
	IO
	// Serialization covers snapshot decode failures.
	Serialization
)

func (k Kind) String() string {
	switch k {
	case Usage:
		return "usage error"
	case GTFS:
		return "GTFS parse failed"
	case IO:
		return "I/O error"
	case Serialization:
		return "serialization error"
	default:
		return "error"
	}
}

// Error is a classified, optionally-wrapped error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// wrapf attaches a stack trace to err via github.com/pkg/errors before
// classifying it, matching tidbyt-gtfs/parse/stop_times.go's habit of
// wrapping at every layer boundary rather than only at the top.
func wrapf(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: errors.Wrap(err, fmt.Sprintf(format, args...))}
}

// UsageErrorf builds an unwrapped Usage error.
func UsageErrorf(format string, args ...interface{}) *Error { return newf(Usage, format, args...) }

// GTFSErrorf builds an unwrapped GTFS error.
func GTFSErrorf(format string, args ...interface{}) *Error { return newf(GTFS, format, args...) }

// WrapGTFS wraps err as a GTFS error with additional context.
func WrapGTFS(err error, format string, args ...interface{}) *Error {
	return wrapf(GTFS, err, format, args...)
}

// WrapIO wraps err as an IO error with additional context.
func WrapIO(err error, format string, args ...interface{}) *Error {
	return wrapf(IO, err, format, args...)
}

// WrapSerialization wraps err as a Serialization error with
// additional context.
func WrapSerialization(err error, format string, args ...interface{}) *Error {
	return wrapf(Serialization, err, format, args...)
}

// KindOf extracts the Kind of err if it (or something it wraps) is an
// *Error. Defaults to Usage for plain errors, matching the driver's
// policy of exiting non-zero on anything unclassified.
func KindOf(err error) Kind {
	var classified *Error
	for {
		if c, ok := err.(*Error); ok {
			classified = c
			break
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = unwrapper.Unwrap()
		if err == nil {
			break
		}
	}
	if classified == nil {
		return Usage
	}
	return classified.Kind
}
