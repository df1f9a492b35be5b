package checksum

import "github.com/snksoft/crc"

// crc16Table holds the CRC-16/CCITT-FALSE parameters (poly 0x1021, init
// 0xFFFF, no reflection, no final xor) with their lookup table.
var crc16Table = crc.NewTable(crc.CCITT)

// CRC16 returns the CRC-16/CCITT-FALSE checksum of data.
// The checksum of an empty slice is 0xFFFF.
func CRC16(data []byte) uint16 {
	return crc16Table.CRC16(crc16Table.UpdateCrc(crc16Table.InitCrc(), data))
}

// UpdateCRC16 continues a running CRC16 computation with more data.
// Without reflection or a final xor the checksum is the raw register, so a
// previous result can be fed straight back in.
func UpdateCRC16(cur uint16, data []byte) uint16 {
	return crc16Table.CRC16(crc16Table.UpdateCrc(uint64(cur), data))
}
