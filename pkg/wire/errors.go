package wire

import (
	"errors"
	"fmt"
)

// Decode errors.
var (
	// ErrInvalidLength indicates a buffer shorter than MinimumSize.
	ErrInvalidLength = errors.New("wire: invalid message length")

	// ErrChecksumMismatch indicates the CRC16 trailer does not match the data.
	ErrChecksumMismatch = errors.New("wire: checksum mismatch")

	// ErrMalformed indicates a structural violation while walking fields.
	ErrMalformed = errors.New("wire: malformed message")
)

// Message and value errors.
var (
	// ErrKeyNotFound indicates a Get for a key the message does not hold.
	ErrKeyNotFound = errors.New("wire: key not found")

	// ErrKindMismatch indicates a field holds a different kind than requested.
	ErrKindMismatch = errors.New("wire: kind mismatch")

	// ErrStringTooLong indicates a string longer than MaxStringLength.
	ErrStringTooLong = errors.New("wire: string too long")

	// ErrNilValue indicates an attempt to store a nil Value.
	ErrNilValue = errors.New("wire: nil value")

	// ErrUnknownKind indicates an unrecognized kind name or tag.
	ErrUnknownKind = errors.New("wire: unknown kind")

	// ErrEmptyMessage indicates a message with no fields where one that
	// round-trips is required. Its encoding is shorter than MinimumSize.
	ErrEmptyMessage = errors.New("wire: message has no fields")
)

// LengthError reports a buffer that is too short to be a message.
// It matches ErrInvalidLength with errors.Is.
type LengthError struct {
	Length  int
	Minimum int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%v: %d bytes, need at least %d", ErrInvalidLength, e.Length, e.Minimum)
}

func (e *LengthError) Unwrap() error { return ErrInvalidLength }

// ChecksumError reports a trailer mismatch with both checksums for
// diagnostics. It matches ErrChecksumMismatch with errors.Is.
type ChecksumError struct {
	Computed uint16
	Provided uint16
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("%v: computed 0x%04x, provided 0x%04x", ErrChecksumMismatch, e.Computed, e.Provided)
}

func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// MalformedError reports where and why the field walk failed.
// It matches ErrMalformed with errors.Is.
type MalformedError struct {
	// Offset is the byte offset at which the violation was detected.
	Offset int
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%v at offset %d: %s", ErrMalformed, e.Offset, e.Reason)
}

func (e *MalformedError) Unwrap() error { return ErrMalformed }

func malformed(offset int, format string, args ...any) error {
	return &MalformedError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

// ErrorKind returns a stable upper-case name for the decode error class of
// err (INVALID_LENGTH, CHECKSUM_MISMATCH, MALFORMED), or "ERROR" otherwise.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidLength):
		return "INVALID_LENGTH"
	case errors.Is(err, ErrChecksumMismatch):
		return "CHECKSUM_MISMATCH"
	case errors.Is(err, ErrMalformed):
		return "MALFORMED"
	case errors.Is(err, ErrKeyNotFound):
		return "KEY_NOT_FOUND"
	default:
		return "ERROR"
	}
}
