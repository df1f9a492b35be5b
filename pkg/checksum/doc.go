// Package checksum provides the CRC primitives used by the Keeko wire format.
//
// CRC16 protects every encoded message: the trailing two bytes of a buffer
// are the CRC-16/CCITT-FALSE of everything before them. CRC32 (IEEE) is the
// conventional way to derive a stable 32-bit field key from a human-readable
// field name; the codec itself treats keys as opaque.
package checksum
