package wire

import "github.com/keeko-protocol/keeko-go/pkg/checksum"

// KeyOf derives the conventional field key for a field name: the CRC32
// of its bytes. The codec never requires keys to be derived this way.
func KeyOf(name string) uint32 {
	return checksum.CRC32([]byte(name))
}
