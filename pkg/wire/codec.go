package wire

import (
	"encoding"

	"github.com/keeko-protocol/keeko-go/pkg/checksum"
)

// Layout constants.
const (
	// KeySize is the size of a field key in bytes.
	KeySize = 4

	// TagSize is the size of a field tag in bytes.
	TagSize = 1

	// ChecksumSize is the size of the CRC16 trailer in bytes.
	ChecksumSize = 2

	// FieldHeaderSize is the size of a field's key and tag.
	FieldHeaderSize = KeySize + TagSize

	// MinimumSize is the shortest buffer Decode accepts: one field with a
	// single-byte payload plus the trailer.
	MinimumSize = FieldHeaderSize + 1 + ChecksumSize
)

// Field is one field visited by Walk.
type Field struct {
	// Offset is the position of the field's key within the buffer.
	Offset int

	Key   uint32
	Value Value

	// Size is the encoded size of the whole field, key and tag included.
	Size int
}

// Walk validates data as an encoded message and calls fn for each field in
// wire order. Length and checksum are verified before fn is first called.
// Walk stops at the first structural violation or at the first error
// returned by fn, and returns it.
func Walk(data []byte, fn func(Field) error) error {
	n := len(data)
	if n < MinimumSize {
		return &LengthError{Length: n, Minimum: MinimumSize}
	}

	end := n - ChecksumSize
	computed := checksum.CRC16(data[:end])
	provided := wireOrder.Uint16(data[end:])
	if computed != provided {
		return &ChecksumError{Computed: computed, Provided: provided}
	}

	for pos := 0; pos < end; {
		start := pos
		if end-pos < FieldHeaderSize {
			return malformed(pos, "%d trailing bytes do not hold a field header", end-pos)
		}
		key := wireOrder.Uint32(data[pos:])
		pos += KeySize

		kind := Kind(data[pos])
		if !kind.Valid() {
			return malformed(pos, "unknown tag %d", uint8(kind))
		}
		pos += TagSize

		var v Value
		if kind == KindString {
			if end-pos < StringLengthSize {
				return malformed(pos, "truncated string length")
			}
			length := int(wireOrder.Uint16(data[pos:]))
			pos += StringLengthSize
			if length > end-pos {
				return malformed(pos, "string length %d exceeds %d remaining bytes", length, end-pos)
			}
			v = String(data[pos : pos+length])
			pos += length
		} else {
			width := kind.Width()
			if width > end-pos {
				return malformed(pos, "%s payload needs %d bytes, %d remain", kind, width, end-pos)
			}
			v = readScalar(kind, data[pos:pos+width])
			pos += width
		}

		if err := fn(Field{Offset: start, Key: key, Value: v, Size: pos - start}); err != nil {
			return err
		}
	}
	return nil
}

// Decode parses data into a message. A repeated key keeps its last value.
// On any failure no message is returned.
func Decode(data []byte) (*Message, error) {
	fields := make(map[uint32]Value)
	err := Walk(data, func(f Field) error {
		fields[f.Key] = f.Value
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Message{fields: fields}, nil
}

// Size returns the exact number of bytes Encode will produce.
func (m *Message) Size() int {
	size := ChecksumSize
	for _, v := range m.fields {
		size += FieldHeaderSize + WireSize(v)
	}
	return size
}

// Encode serializes the message with fields in ascending key order and a
// CRC16 trailer. The result is allocated once at its exact size.
//
// An empty message encodes to the two-byte checksum of empty input, which
// Decode rejects as shorter than MinimumSize. Writers that must produce
// decodable output check Len first and report ErrEmptyMessage.
func (m *Message) Encode() []byte {
	buf := make([]byte, m.Size())
	pos := 0
	for _, key := range m.Keys() {
		v := m.fields[key]
		wireOrder.PutUint32(buf[pos:], key)
		pos += KeySize
		buf[pos] = byte(v.Kind())
		pos += TagSize
		pos += putValue(buf[pos:], v)
	}
	wireOrder.PutUint16(buf[pos:], checksum.CRC16(buf[:pos]))
	return buf
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *Message) MarshalBinary() ([]byte, error) {
	return m.Encode(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The message is
// replaced only if data decodes successfully.
func (m *Message) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	m.fields = decoded.fields
	return nil
}

// Compile-time interface satisfaction checks.
var (
	_ encoding.BinaryMarshaler   = (*Message)(nil)
	_ encoding.BinaryUnmarshaler = (*Message)(nil)
)
