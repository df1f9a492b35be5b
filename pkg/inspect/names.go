package inspect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/keeko-protocol/keeko-go/pkg/wire"
)

// Names resolves field keys to human-readable names.
// *schema.Catalog implements it.
type Names interface {
	FieldName(key uint32) (string, bool)
}

// ParseKey parses a field key written as a decimal or 0x-prefixed number,
// or as "@name" for the CRC32 key of name.
func ParseKey(text string) (uint32, error) {
	text = strings.TrimSpace(text)
	if name, ok := strings.CutPrefix(text, "@"); ok {
		if name == "" {
			return 0, fmt.Errorf("empty field name in key %q", text)
		}
		return wire.KeyOf(name), nil
	}
	n, err := strconv.ParseUint(text, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid key %q: %w", text, err)
	}
	return uint32(n), nil
}

// ParseFieldSpec parses a "key=kind:value" field specification, e.g.
// "0x10=u32:42" or "@label=string:kitchen". The value may contain further
// colons and equals signs.
func ParseFieldSpec(spec string) (uint32, wire.Value, error) {
	keyText, rest, ok := strings.Cut(spec, "=")
	if !ok {
		return 0, nil, fmt.Errorf("field %q: want key=kind:value", spec)
	}
	kindText, valueText, ok := strings.Cut(rest, ":")
	if !ok {
		return 0, nil, fmt.Errorf("field %q: want key=kind:value", spec)
	}

	key, err := ParseKey(keyText)
	if err != nil {
		return 0, nil, err
	}
	kind, err := wire.ParseKind(kindText)
	if err != nil {
		return 0, nil, err
	}
	v, err := wire.ParseValue(kind, valueText)
	if err != nil {
		return 0, nil, err
	}
	return key, v, nil
}
