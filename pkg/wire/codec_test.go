package wire

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeko-protocol/keeko-go/pkg/checksum"
)

// seal appends a valid CRC16 trailer to body.
func seal(body []byte) []byte {
	out := make([]byte, len(body), len(body)+ChecksumSize)
	copy(out, body)
	return binary.LittleEndian.AppendUint16(out, checksum.CRC16(body))
}

// field builds the key and tag header of a raw field followed by payload.
func field(key uint32, tag byte, payload ...byte) []byte {
	out := binary.LittleEndian.AppendUint32(nil, key)
	out = append(out, tag)
	return append(out, payload...)
}

func mustSet(t *testing.T, m *Message, key uint32, v Value) {
	t.Helper()
	require.NoError(t, m.Set(key, v))
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		fields map[uint32]Value
	}{
		{
			name:   "single u8",
			fields: map[uint32]Value{1: U8(7)},
		},
		{
			name: "unsigned extremes",
			fields: map[uint32]Value{
				1: U8(math.MaxUint8),
				2: U16(math.MaxUint16),
				3: U32(math.MaxUint32),
				4: U64(math.MaxUint64),
			},
		},
		{
			name: "signed extremes",
			fields: map[uint32]Value{
				10: I8(math.MinInt8),
				11: I16(math.MinInt16),
				12: I32(math.MinInt32),
				13: I64(math.MinInt64),
				14: I64(-1),
			},
		},
		{
			name: "floats",
			fields: map[uint32]Value{
				20: F32(3.5),
				21: F64(-2.718281828459045),
				22: F32(float32(math.Inf(1))),
				23: F64(math.SmallestNonzeroFloat64),
			},
		},
		{
			name: "booleans",
			fields: map[uint32]Value{
				30: Bool(true),
				31: Bool(false),
			},
		},
		{
			name: "strings",
			fields: map[uint32]Value{
				40: String(""),
				41: String("hi"),
				42: String("temperatur °C"),
				43: String(strings.Repeat("x", MaxStringLength)),
			},
		},
		{
			name: "mixed with large keys",
			fields: map[uint32]Value{
				KeyOf("temperature"): F32(21.5),
				KeyOf("label"):       String("living room"),
				math.MaxUint32:       Bool(true),
				0:                    U16(0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			for k, v := range tt.fields {
				mustSet(t, m, k, v)
			}

			data := m.Encode()
			assert.Len(t, data, m.Size())

			decoded, err := Decode(data)
			require.NoError(t, err)
			assert.True(t, m.Equal(decoded), "decoded message differs")
			for k, want := range tt.fields {
				got, err := decoded.Get(k)
				require.NoError(t, err)
				assert.Equal(t, want, got, "key %d", k)
			}
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	m := New()
	mustSet(t, m, 2, String("hi"))
	mustSet(t, m, 1, U32(42))

	body := append(field(1, byte(KindU32), 0x2A, 0x00, 0x00, 0x00),
		field(2, byte(KindString), 0x02, 0x00, 'h', 'i')...)
	want := seal(body)

	got := m.Encode()
	assert.Equal(t, want, got)
	assert.Equal(t, 4+1+4+4+1+2+2+2, len(got))
}

func TestEncodeAscendingKeyOrder(t *testing.T) {
	m := New()
	mustSet(t, m, 300, U8(3))
	mustSet(t, m, 1, U8(1))
	mustSet(t, m, 20, U8(2))

	data := m.Encode()
	var keys []uint32
	require.NoError(t, Walk(data, func(f Field) error {
		keys = append(keys, f.Key)
		return nil
	}))
	assert.Equal(t, []uint32{1, 20, 300}, keys)
}

func TestEncodeDeterministic(t *testing.T) {
	a := New()
	b := New()
	for i := uint32(0); i < 50; i++ {
		mustSet(t, a, i*7919, U32(i))
	}
	for i := uint32(50); i > 0; i-- {
		mustSet(t, b, (i-1)*7919, U32(i-1))
	}
	assert.Equal(t, a.Encode(), b.Encode())
}

func TestEncodeEmptyMessage(t *testing.T) {
	data := New().Encode()
	assert.Equal(t, []byte{0xFF, 0xFF}, data)

	var zero Message
	assert.Equal(t, data, zero.Encode())
}

func TestEncodeBool(t *testing.T) {
	m := New()
	mustSet(t, m, 1, Bool(true))
	data := m.Encode()
	assert.Equal(t, byte(1), data[FieldHeaderSize])
}

func TestKeyOverwrite(t *testing.T) {
	m := New()
	mustSet(t, m, 9, U32(1))
	mustSet(t, m, 9, String("later"))

	data := m.Encode()
	count := 0
	require.NoError(t, Walk(data, func(f Field) error {
		count++
		assert.Equal(t, uint32(9), f.Key)
		assert.Equal(t, String("later"), f.Value)
		return nil
	}))
	assert.Equal(t, 1, count)
}

func TestConcreteScenario(t *testing.T) {
	m := New()
	mustSet(t, m, 1, U32(42))
	mustSet(t, m, 2, String("hi"))

	m2, err := Decode(m.Encode())
	require.NoError(t, err)

	v1, err := m2.Get(1)
	require.NoError(t, err)
	assert.Equal(t, U32(42), v1)

	v2, err := m2.Get(2)
	require.NoError(t, err)
	assert.Equal(t, String("hi"), v2)
}

func TestDecodeInvalidLength(t *testing.T) {
	for n := 0; n < MinimumSize; n++ {
		_, err := Decode(make([]byte, n))
		require.ErrorIs(t, err, ErrInvalidLength, "length %d", n)

		var lenErr *LengthError
		require.True(t, errors.As(err, &lenErr))
		assert.Equal(t, n, lenErr.Length)
		assert.Equal(t, MinimumSize, lenErr.Minimum)
	}
}

func TestDecodeMinimumSize(t *testing.T) {
	data := seal(field(0xABCD, byte(KindU8), 0x05))
	require.Len(t, data, MinimumSize)

	m, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
	v, err := m.Get(0xABCD)
	require.NoError(t, err)
	assert.Equal(t, U8(5), v)
}

func TestDecodeChecksumMismatch(t *testing.T) {
	m := New()
	mustSet(t, m, 1, U32(42))
	mustSet(t, m, 2, String("hi"))
	mustSet(t, m, 3, F64(1.25))
	data := m.Encode()

	for bit := 0; bit < len(data)*8; bit++ {
		corrupted := append([]byte(nil), data...)
		corrupted[bit/8] ^= 1 << (bit % 8)

		_, err := Decode(corrupted)
		require.ErrorIs(t, err, ErrChecksumMismatch, "bit %d", bit)
	}
}

func TestDecodeChecksumErrorCarriesBothValues(t *testing.T) {
	body := field(1, byte(KindU16), 0x01, 0x02)
	data := binary.LittleEndian.AppendUint16(body, 0x1234)

	_, err := Decode(data)
	var csErr *ChecksumError
	require.True(t, errors.As(err, &csErr))
	assert.Equal(t, checksum.CRC16(body), csErr.Computed)
	assert.Equal(t, uint16(0x1234), csErr.Provided)
	assert.Contains(t, err.Error(), "0x1234")
}

func TestDecodeUnknownTag(t *testing.T) {
	for _, tag := range []byte{12, 13, 128, 255} {
		data := seal(field(1, tag, 0x00, 0x00))
		_, err := Decode(data)
		require.ErrorIs(t, err, ErrMalformed, "tag %d", tag)

		var mErr *MalformedError
		require.True(t, errors.As(err, &mErr))
		assert.Equal(t, KeySize, mErr.Offset)
	}
}

func TestDecodeMalformed(t *testing.T) {
	valid := field(1, byte(KindU8), 0x01)

	tests := []struct {
		name string
		body []byte
	}{
		{
			name: "string length past trailer",
			body: field(1, byte(KindString), 0x0A, 0x00, 'a', 'b'),
		},
		{
			name: "string length one past trailer",
			body: field(1, byte(KindString), 0x03, 0x00, 'a', 'b'),
		},
		{
			name: "truncated string length",
			body: append(append([]byte(nil), valid...), field(2, byte(KindString), 0x01)...),
		},
		{
			name: "truncated u64 payload",
			body: field(1, byte(KindU64), 0x01, 0x02, 0x03),
		},
		{
			name: "truncated f32 payload",
			body: field(1, byte(KindF32), 0x01, 0x02),
		},
		{
			name: "trailing bytes shorter than a header",
			body: append(append([]byte(nil), valid...), 0x01, 0x02, 0x03),
		},
		{
			name: "key without tag",
			body: append(append([]byte(nil), valid...), 0x01, 0x02, 0x03, 0x04),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(seal(tt.body))
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecodeEmptyString(t *testing.T) {
	m := New()
	mustSet(t, m, 5, String(""))

	decoded, err := Decode(m.Encode())
	require.NoError(t, err)
	v, err := decoded.Get(5)
	require.NoError(t, err)
	assert.Equal(t, String(""), v)
}

func TestDecodeStringExactlyFillsBuffer(t *testing.T) {
	data := seal(field(1, byte(KindString), 0x03, 0x00, 'a', 'b', 'c'))
	m, err := Decode(data)
	require.NoError(t, err)
	v, err := m.Get(1)
	require.NoError(t, err)
	assert.Equal(t, String("abc"), v)
}

func TestDecodeDuplicateKeyLastWins(t *testing.T) {
	body := append(field(7, byte(KindU8), 0x01), field(7, byte(KindI16), 0xFE, 0xFF)...)
	m, err := Decode(seal(body))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
	v, err := m.Get(7)
	require.NoError(t, err)
	assert.Equal(t, I16(-2), v)
}

func TestDecodeNonZeroBoolIsTrue(t *testing.T) {
	m, err := Decode(seal(field(1, byte(KindBool), 0x7F)))
	require.NoError(t, err)
	v, err := m.Get(1)
	require.NoError(t, err)
	assert.Equal(t, Bool(true), v)
}

func TestDecodeDoesNotAliasInput(t *testing.T) {
	m := New()
	mustSet(t, m, 1, String("abc"))
	data := m.Encode()

	decoded, err := Decode(data)
	require.NoError(t, err)
	for i := range data {
		data[i] = 0
	}

	v, err := decoded.Get(1)
	require.NoError(t, err)
	assert.Equal(t, String("abc"), v)
}

func TestWalkReportsOffsetsAndSizes(t *testing.T) {
	m := New()
	mustSet(t, m, 1, U16(1))
	mustSet(t, m, 2, String("abcd"))
	mustSet(t, m, 3, F64(0))

	var fields []Field
	require.NoError(t, Walk(m.Encode(), func(f Field) error {
		fields = append(fields, f)
		return nil
	}))
	require.Len(t, fields, 3)

	assert.Equal(t, 0, fields[0].Offset)
	assert.Equal(t, 7, fields[0].Size)
	assert.Equal(t, 7, fields[1].Offset)
	assert.Equal(t, 11, fields[1].Size)
	assert.Equal(t, 18, fields[2].Offset)
	assert.Equal(t, 13, fields[2].Size)
}

func TestWalkStopsOnCallbackError(t *testing.T) {
	m := New()
	mustSet(t, m, 1, U8(1))
	mustSet(t, m, 2, U8(2))

	stop := errors.New("stop")
	calls := 0
	err := Walk(m.Encode(), func(Field) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestUnmarshalBinaryKeepsMessageOnFailure(t *testing.T) {
	m := New()
	mustSet(t, m, 1, U8(1))

	err := m.UnmarshalBinary([]byte{0x00})
	require.ErrorIs(t, err, ErrInvalidLength)
	assert.Equal(t, 1, m.Len())

	other := New()
	mustSet(t, other, 2, Bool(true))
	data, err := other.MarshalBinary()
	require.NoError(t, err)

	require.NoError(t, m.UnmarshalBinary(data))
	assert.True(t, m.Equal(other))
}

func TestErrorKind(t *testing.T) {
	_, lenErr := Decode(nil)
	_, csErr := Decode(binary.LittleEndian.AppendUint16(field(1, 0, 1), 0))
	_, malErr := Decode(seal(field(1, 99, 1)))
	_, keyErr := New().Get(1)

	assert.Equal(t, "INVALID_LENGTH", ErrorKind(lenErr))
	assert.Equal(t, "CHECKSUM_MISMATCH", ErrorKind(csErr))
	assert.Equal(t, "MALFORMED", ErrorKind(malErr))
	assert.Equal(t, "KEY_NOT_FOUND", ErrorKind(keyErr))
	assert.Equal(t, "ERROR", ErrorKind(errors.New("other")))
}
