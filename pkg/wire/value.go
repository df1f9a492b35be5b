package wire

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// String length prefix.
const (
	// StringLengthSize is the size of the string length prefix in bytes.
	StringLengthSize = 2

	// MaxStringLength is the longest string, in bytes, a field can carry.
	MaxStringLength = math.MaxUint16
)

// Value is a single typed field value. The set of implementations is
// closed: U8, U16, U32, U64, I8, I16, I32, I64, F32, F64, Bool and String.
//
// All implementations are comparable, so two values are equal exactly when
// == reports true (F32/F64 NaN aside).
type Value interface {
	// Kind returns the wire tag of the value.
	Kind() Kind

	sealed()
}

type (
	U8     uint8
	U16    uint16
	U32    uint32
	U64    uint64
	I8     int8
	I16    int16
	I32    int32
	I64    int64
	F32    float32
	F64    float64
	Bool   bool
	String string
)

func (U8) Kind() Kind     { return KindU8 }
func (U16) Kind() Kind    { return KindU16 }
func (U32) Kind() Kind    { return KindU32 }
func (U64) Kind() Kind    { return KindU64 }
func (I8) Kind() Kind     { return KindI8 }
func (I16) Kind() Kind    { return KindI16 }
func (I32) Kind() Kind    { return KindI32 }
func (I64) Kind() Kind    { return KindI64 }
func (F32) Kind() Kind    { return KindF32 }
func (F64) Kind() Kind    { return KindF64 }
func (Bool) Kind() Kind   { return KindBool }
func (String) Kind() Kind { return KindString }

func (U8) sealed()     {}
func (U16) sealed()    {}
func (U32) sealed()    {}
func (U64) sealed()    {}
func (I8) sealed()     {}
func (I16) sealed()    {}
func (I32) sealed()    {}
func (I64) sealed()    {}
func (F32) sealed()    {}
func (F64) sealed()    {}
func (Bool) sealed()   {}
func (String) sealed() {}

// WireSize returns the number of payload bytes v occupies on the wire:
// the fixed width for scalars, or the length prefix plus the string bytes.
func WireSize(v Value) int {
	if s, ok := v.(String); ok {
		return StringLengthSize + len(s)
	}
	return v.Kind().Width()
}

// Native returns v as the corresponding built-in Go type
// (uint8 ... float64, bool, string).
func Native(v Value) any {
	switch v := v.(type) {
	case U8:
		return uint8(v)
	case U16:
		return uint16(v)
	case U32:
		return uint32(v)
	case U64:
		return uint64(v)
	case I8:
		return int8(v)
	case I16:
		return int16(v)
	case I32:
		return int32(v)
	case I64:
		return int64(v)
	case F32:
		return float32(v)
	case F64:
		return float64(v)
	case Bool:
		return bool(v)
	case String:
		return string(v)
	default:
		panic(fmt.Sprintf("wire: unknown value type %T", v))
	}
}

// FormatValue returns the textual form of v accepted by ParseValue.
func FormatValue(v Value) string {
	switch v := v.(type) {
	case U8, U16, U32, U64, I8, I16, I32, I64:
		return fmt.Sprintf("%d", v)
	case F32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case F64:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(bool(v))
	case String:
		return string(v)
	default:
		panic(fmt.Sprintf("wire: unknown value type %T", v))
	}
}

// ParseValue parses text as a value of the given kind. Integers accept
// Go literal prefixes (0x, 0o, 0b). Strings are taken verbatim.
func ParseValue(kind Kind, text string) (Value, error) {
	if kind == KindString {
		if len(text) > MaxStringLength {
			return nil, fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(text))
		}
		return String(text), nil
	}

	text = strings.TrimSpace(text)
	switch kind {
	case KindU8, KindU16, KindU32, KindU64:
		n, err := strconv.ParseUint(text, 0, kind.Width()*8)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", kind, text, err)
		}
		switch kind {
		case KindU8:
			return U8(n), nil
		case KindU16:
			return U16(n), nil
		case KindU32:
			return U32(n), nil
		default:
			return U64(n), nil
		}

	case KindI8, KindI16, KindI32, KindI64:
		n, err := strconv.ParseInt(text, 0, kind.Width()*8)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", kind, text, err)
		}
		switch kind {
		case KindI8:
			return I8(n), nil
		case KindI16:
			return I16(n), nil
		case KindI32:
			return I32(n), nil
		default:
			return I64(n), nil
		}

	case KindF32:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", kind, text, err)
		}
		return F32(f), nil

	case KindF64:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", kind, text, err)
		}
		return F64(f), nil

	case KindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", kind, text, err)
		}
		return Bool(b), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}
