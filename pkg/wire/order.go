package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// wireOrder is the byte order of every multi-byte value on the wire. Both
// the encoder and the decoder convert exclusively through it, so the result
// does not depend on the host's native order.
var wireOrder = binary.LittleEndian

// HostBigEndian reports whether the running platform is big-endian.
// It is determined once at start-up and is informational only.
var HostBigEndian bool

func init() {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	HostBigEndian = probe[0] == 0
}

// putValue writes the payload of v to dst and returns the bytes written.
// dst must hold at least WireSize(v) bytes.
func putValue(dst []byte, v Value) int {
	switch v := v.(type) {
	case U8:
		dst[0] = byte(v)
	case U16:
		wireOrder.PutUint16(dst, uint16(v))
	case U32:
		wireOrder.PutUint32(dst, uint32(v))
	case U64:
		wireOrder.PutUint64(dst, uint64(v))
	case I8:
		dst[0] = byte(v)
	case I16:
		wireOrder.PutUint16(dst, uint16(v))
	case I32:
		wireOrder.PutUint32(dst, uint32(v))
	case I64:
		wireOrder.PutUint64(dst, uint64(v))
	case F32:
		wireOrder.PutUint32(dst, math.Float32bits(float32(v)))
	case F64:
		wireOrder.PutUint64(dst, math.Float64bits(float64(v)))
	case Bool:
		dst[0] = 0
		if v {
			dst[0] = 1
		}
	case String:
		wireOrder.PutUint16(dst, uint16(len(v)))
		copy(dst[StringLengthSize:], v)
	default:
		panic(fmt.Sprintf("wire: unknown value type %T", v))
	}
	return WireSize(v)
}

// readScalar interprets src as the payload of a fixed-width kind.
// src must hold at least kind.Width() bytes.
func readScalar(kind Kind, src []byte) Value {
	switch kind {
	case KindU8:
		return U8(src[0])
	case KindU16:
		return U16(wireOrder.Uint16(src))
	case KindU32:
		return U32(wireOrder.Uint32(src))
	case KindU64:
		return U64(wireOrder.Uint64(src))
	case KindI8:
		return I8(int8(src[0]))
	case KindI16:
		return I16(int16(wireOrder.Uint16(src)))
	case KindI32:
		return I32(int32(wireOrder.Uint32(src)))
	case KindI64:
		return I64(int64(wireOrder.Uint64(src)))
	case KindF32:
		return F32(math.Float32frombits(wireOrder.Uint32(src)))
	case KindF64:
		return F64(math.Float64frombits(wireOrder.Uint64(src)))
	case KindBool:
		return Bool(src[0] != 0)
	default:
		panic(fmt.Sprintf("wire: %s is not a scalar kind", kind))
	}
}
