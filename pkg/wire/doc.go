// Package wire implements the Keeko binary message format.
//
// A Keeko message is a flat set of typed values, each identified by a
// 32-bit field key. Keys are opaque to the codec; by convention they are
// the CRC32 of a human-readable field name (see KeyOf).
//
// # Wire Layout
//
// All multi-byte values are little-endian. Fields are written in ascending
// key order, followed by a CRC16 trailer over every preceding byte:
//
//	[ key: u32 ][ tag: u8 ][ payload ]   x N fields
//	[ checksum: u16 ]
//
// The tag selects one of twelve kinds. Scalar kinds have a fixed payload
// width; strings carry a u16 length prefix followed by the raw bytes:
//
//	tag  kind    payload
//	0    u8      1
//	1    u16     2
//	2    u32     4
//	3    u64     8
//	4    i8      1
//	5    i16     2
//	6    i32     4
//	7    i64     8
//	8    f32     4 (IEEE 754)
//	9    f64     8 (IEEE 754)
//	10   bool    1
//	11   string  2 + length
//
// # Decoding
//
// Decode is strict and all-or-nothing. It fails with ErrInvalidLength for
// buffers shorter than MinimumSize, ErrChecksumMismatch when the trailer
// does not match, and ErrMalformed for any structural violation (truncated
// field, unknown tag, string running into the trailer). No partial message
// is ever returned.
package wire
