package checksum

import "hash/crc32"

// CRC32 returns the CRC-32/IEEE checksum of data.
func CRC32(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}
