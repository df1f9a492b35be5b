package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC16(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint16
	}{
		{name: "empty", data: nil, want: 0xFFFF},
		{name: "check value", data: []byte("123456789"), want: 0x29B1},
		{name: "single zero byte", data: []byte{0x00}, want: 0xE1F0},
		{name: "ascii A", data: []byte("A"), want: 0xB915},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CRC16(tt.data))
		})
	}
}

func TestUpdateCRC16Incremental(t *testing.T) {
	data := []byte("123456789")
	crc := CRC16(data[:4])
	crc = UpdateCRC16(crc, data[4:])
	assert.Equal(t, CRC16(data), crc)
}

func TestUpdateCRC16ByteAtATime(t *testing.T) {
	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i * 7)
	}

	crc := CRC16(nil)
	for i := range data {
		crc = UpdateCRC16(crc, data[i:i+1])
	}
	assert.Equal(t, CRC16(data), crc)
	assert.Equal(t, crc, UpdateCRC16(crc, nil), "empty update must not change the checksum")
}

func TestCRC32(t *testing.T) {
	assert.Equal(t, uint32(0xCBF43926), CRC32([]byte("123456789")))
	assert.Equal(t, uint32(0), CRC32(nil))
}
