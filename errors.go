package smf

import (
	"fmt"

	"github.com/pkg/errors"
)

// ParserError indicates a structural mismatch encountered while decoding a
// byte stream: a chunk with the wrong type tag, a chunk that ends before its
// declared length is satisfied, or any other byte-level disagreement between
// what was expected and what was found. Byte holds the offset (relative to
// the start of the cursor being read) at which the mismatch was detected.
type ParserError struct {
	Actual   string
	Expected string
	Byte     int64
	cause    error
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("parser error at byte %d: expected %s, got %s",
		e.Byte, e.Expected, e.Actual)
}

func (e *ParserError) Unwrap() error { return e.cause }

func newParserError(expected, actual string, byteOffset int64) error {
	return errors.WithStack(&ParserError{
		Actual:   actual,
		Expected: expected,
		Byte:     byteOffset,
	})
}

// EncoderError indicates a value was out of range while encoding, such as a
// VarInt exceeding the 28-bit limit or a file with more tracks than the
// header's 16-bit track count can hold.
type EncoderError struct {
	Message string
	cause   error
}

func (e *EncoderError) Error() string { return "encoder error: " + e.Message }

func (e *EncoderError) Unwrap() error { return e.cause }

func newEncoderError(format string, args ...interface{}) error {
	return errors.WithStack(&EncoderError{Message: fmt.Sprintf(format, args...)})
}

// InvalidEvent indicates the byte stream was well-formed but described an
// event that cannot exist: running status used with no prior status byte, an
// unrecognized status byte, or a meta event whose declared length doesn't
// match what its type requires.
type InvalidEvent struct {
	Message string
	cause   error
}

func (e *InvalidEvent) Error() string { return "invalid event: " + e.Message }

func (e *InvalidEvent) Unwrap() error { return e.cause }

func newInvalidEvent(format string, args ...interface{}) error {
	return errors.WithStack(&InvalidEvent{Message: fmt.Sprintf(format, args...)})
}

// InvalidArgument indicates API misuse: an out-of-range field supplied to an
// event constructor, a fileType outside {0,1,2}, or an operation (such as
// removing a track) that the current state of the File can't support.
type InvalidArgument struct {
	Message string
}

func (e *InvalidArgument) Error() string { return "invalid argument: " + e.Message }

func newInvalidArgument(format string, args ...interface{}) error {
	return errors.WithStack(&InvalidArgument{Message: fmt.Sprintf(format, args...)})
}

// NotMIDI indicates the first chunk read wasn't MThd at all, suggesting the
// input isn't a Standard MIDI File rather than merely a malformed one.
type NotMIDI struct {
	Actual string
}

func (e *NotMIDI) Error() string {
	return fmt.Sprintf("not a MIDI file: expected MThd, got %q", e.Actual)
}

func newNotMIDI(actual string) error {
	return errors.WithStack(&NotMIDI{Actual: actual})
}

// NotSupported indicates a construct that is valid under the SMF 1.0 format
// but that this codec does not implement, such as a system-common or
// realtime status byte appearing inside a track.
type NotSupported struct {
	Message string
}

func (e *NotSupported) Error() string { return "not supported: " + e.Message }

func newNotSupported(format string, args ...interface{}) error {
	return errors.WithStack(&NotSupported{Message: fmt.Sprintf(format, args...)})
}

// Overflow indicates a Cursor read or slice operation tried to move past the
// end of its backing buffer.
type Overflow struct {
	Requested int
	Position  int64
	Size      int64
}

func (e *Overflow) Error() string {
	return fmt.Sprintf("cursor overflow: requested %d bytes at position %d, "+
		"buffer size %d", e.Requested, e.Position, e.Size)
}

func newOverflow(requested int, position, size int64) error {
	return errors.WithStack(&Overflow{
		Requested: requested,
		Position:  position,
		Size:      size,
	})
}

// wrap attaches msg as context to cause without discarding it, using
// pkg/errors so callers can still recover the original error with
// errors.Cause or errors.As.
func wrap(cause error, format string, args ...interface{}) error {
	return errors.Wrapf(cause, format, args...)
}
