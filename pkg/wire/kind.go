package wire

import (
	"fmt"
	"strings"
)

// Kind is the wire tag of a value. The numeric values are part of the
// wire format and must never be reordered.
type Kind uint8

const (
	KindU8 Kind = iota
	KindU16
	KindU32
	KindU64
	KindI8
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
	KindBool
	KindString

	kindCount
)

// kindWidths holds the fixed payload width per kind. Strings are variable.
var kindWidths = [kindCount]int{1, 2, 4, 8, 1, 2, 4, 8, 4, 8, 1, 0}

var kindNames = [kindCount]string{
	"u8", "u16", "u32", "u64",
	"i8", "i16", "i32", "i64",
	"f32", "f64",
	"bool",
	"string",
}

// kindAliases maps accepted spellings to kinds for ParseKind.
var kindAliases = map[string]Kind{
	"uint8":   KindU8,
	"uint16":  KindU16,
	"uint32":  KindU32,
	"uint64":  KindU64,
	"int8":    KindI8,
	"int16":   KindI16,
	"int32":   KindI32,
	"int64":   KindI64,
	"float32": KindF32,
	"float":   KindF32,
	"float64": KindF64,
	"double":  KindF64,
	"boolean": KindBool,
	"str":     KindString,
}

// String returns the kind name.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Valid returns true if k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k < kindCount
}

// Width returns the fixed payload width of k in bytes.
// It returns 0 for KindString and for invalid kinds.
func (k Kind) Width() int {
	if !k.Valid() {
		return 0
	}
	return kindWidths[k]
}

// Kinds returns all defined kinds in tag order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind returns the kind named by name. Matching is case-insensitive
// and accepts Go-style aliases such as "uint32" or "float64".
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	if k, ok := kindAliases[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
