package log

import "time"

// Event is one captured codec operation.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the operation completed (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID groups events from one codec user (a UUID by convention).
	SessionID string `cbor:"2,keyasint"`

	// Direction says whether a message was decoded or encoded.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"4,keyasint"`

	// Exactly one of these is set.
	Message *MessageEvent   `cbor:"5,keyasint,omitempty"`
	Error   *ErrorEventData `cbor:"6,keyasint,omitempty"`
}

// Direction is the codec operation an event describes.
type Direction uint8

const (
	// DirectionDecode indicates bytes were turned into a message.
	DirectionDecode Direction = 0
	// DirectionEncode indicates a message was turned into bytes.
	DirectionEncode Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionDecode:
		return "DECODE"
	case DirectionEncode:
		return "ENCODE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies an event.
type Category uint8

const (
	// CategoryMessage indicates a successfully encoded or decoded message.
	CategoryMessage Category = 0
	// CategoryError indicates a rejected buffer.
	CategoryError Category = 1
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MessageEvent describes an encoded buffer and the fields it carries.
type MessageEvent struct {
	// Size is the buffer size in bytes, trailer included.
	Size int `cbor:"1,keyasint"`

	// FieldCount is the number of fields in the message.
	FieldCount int `cbor:"2,keyasint"`

	// Checksum is the CRC16 trailer.
	Checksum uint16 `cbor:"3,keyasint"`

	// Data is the raw buffer (may be truncated for large messages).
	Data []byte `cbor:"4,keyasint,omitempty"`

	// Truncated indicates Data was cut short.
	Truncated bool `cbor:"5,keyasint,omitempty"`

	// Fields lists every field in key order.
	Fields []FieldEvent `cbor:"6,keyasint,omitempty"`
}

// FieldEvent describes one field of a captured message.
type FieldEvent struct {
	Key uint32 `cbor:"1,keyasint"`

	// Kind is the wire kind name (u8 ... string).
	Kind string `cbor:"2,keyasint"`

	Value any `cbor:"3,keyasint"`
}

// ErrorEventData describes a buffer the codec rejected.
type ErrorEventData struct {
	// Kind is the error class (INVALID_LENGTH, CHECKSUM_MISMATCH, MALFORMED).
	Kind string `cbor:"1,keyasint"`

	// Message is the full error text.
	Message string `cbor:"2,keyasint"`

	// Size is the length of the rejected buffer.
	Size int `cbor:"3,keyasint"`

	// Data is the rejected buffer (may be truncated).
	Data []byte `cbor:"4,keyasint,omitempty"`
}
