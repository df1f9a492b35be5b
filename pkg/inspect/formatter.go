// Package inspect renders Keeko messages and encoded buffers for people.
package inspect

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/keeko-protocol/keeko-go/pkg/wire"
)

// Formatter formats messages and wire dumps.
type Formatter struct {
	// Names resolves keys to field names. Nil shows keys only.
	Names Names

	// ShowKinds includes the kind column.
	ShowKinds bool

	// MaxStringLen truncates long string values in listings (0 = no limit).
	MaxStringLen int
}

// NewFormatter creates a Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowKinds:    true,
		MaxStringLen: 64,
	}
}

// FormatKey returns the display form of a key: the field name when known,
// otherwise the key in hex.
func (f *Formatter) FormatKey(key uint32) string {
	if f.Names != nil {
		if name, ok := f.Names.FieldName(key); ok {
			return name
		}
	}
	return fmt.Sprintf("0x%08x", key)
}

// FormatValue formats a value for display. Strings are quoted.
func (f *Formatter) FormatValue(v wire.Value) string {
	s, ok := v.(wire.String)
	if !ok {
		return wire.FormatValue(v)
	}
	if f.MaxStringLen > 0 && len(s) > f.MaxStringLen {
		return strconv.Quote(string(s[:f.MaxStringLen])) + fmt.Sprintf("... (%d bytes)", len(s))
	}
	return strconv.Quote(string(s))
}

// FormatMessage writes m as a table in key order.
func (f *Formatter) FormatMessage(w io.Writer, m *wire.Message) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := []string{"KEY", "NAME"}
	if f.ShowKinds {
		header = append(header, "KIND")
	}
	header = append(header, "VALUE")
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, key := range m.Keys() {
		v, _ := m.Lookup(key)
		name := "-"
		if f.Names != nil {
			if n, ok := f.Names.FieldName(key); ok {
				name = n
			}
		}
		cols := []string{fmt.Sprintf("0x%08x", key), name}
		if f.ShowKinds {
			cols = append(cols, v.Kind().String())
		}
		cols = append(cols, f.FormatValue(v))
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	return tw.Flush()
}

// Dump writes an annotated listing of an encoded buffer: one line per field
// with its offset, raw bytes and decoded value, then the checksum trailer.
// It returns the decode error if data is not a valid message.
func (f *Formatter) Dump(w io.Writer, data []byte) error {
	var lines []string
	err := wire.Walk(data, func(fld wire.Field) error {
		raw := data[fld.Offset : fld.Offset+fld.Size]
		lines = append(lines, fmt.Sprintf("%04x  %s | %s | %s  %s %s %s",
			fld.Offset,
			hex.EncodeToString(raw[:wire.KeySize]),
			hex.EncodeToString(raw[wire.KeySize:wire.FieldHeaderSize]),
			hex.EncodeToString(raw[wire.FieldHeaderSize:]),
			f.FormatKey(fld.Key),
			fld.Value.Kind(),
			f.FormatValue(fld.Value),
		))
		return nil
	})
	if err != nil {
		return err
	}

	trailer := len(data) - wire.ChecksumSize
	lines = append(lines, fmt.Sprintf("%04x  %s  checksum=0x%02x%02x (%d bytes total)",
		trailer, hex.EncodeToString(data[trailer:]), data[trailer+1], data[trailer], len(data)))

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
