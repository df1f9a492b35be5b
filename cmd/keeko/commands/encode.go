package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/keeko-protocol/keeko-go/pkg/frame"
	"github.com/keeko-protocol/keeko-go/pkg/inspect"
	"github.com/keeko-protocol/keeko-go/pkg/schema"
	"github.com/keeko-protocol/keeko-go/pkg/wire"
)

// EncodeOptions configures the encode command.
type EncodeOptions struct {
	// Catalog enables name=value fields and required-field checks.
	Catalog *schema.Catalog

	// Raw writes the binary buffer instead of hex text.
	Raw bool

	// Output is the output file; empty writes to the command's writer.
	Output string

	// Framed writes a length-prefixed frame and appends to Output, so
	// repeated runs build a message stream.
	Framed bool
}

// BuildMessage assembles a message from field arguments. Each argument is
// key=kind:value, or name=value when catalog defines name.
func BuildMessage(args []string, catalog *schema.Catalog) (*wire.Message, error) {
	m := wire.New()
	for _, arg := range args {
		if catalog != nil {
			name, text, ok := strings.Cut(arg, "=")
			if _, known := catalog.Lookup(name); ok && known {
				if err := catalog.Set(m, name, text); err != nil {
					return nil, err
				}
				continue
			}
		}
		key, v, err := inspect.ParseFieldSpec(arg)
		if err != nil {
			return nil, err
		}
		if err := m.Set(key, v); err != nil {
			return nil, fmt.Errorf("field %q: %w", arg, err)
		}
	}
	if catalog != nil {
		if err := catalog.Validate(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RunEncode builds a message from args and writes its encoding. At least
// one field is required: an empty message encodes to a buffer that decode
// rejects.
func RunEncode(args []string, opts EncodeOptions, codec *wire.Codec, w io.Writer) (err error) {
	m, err := BuildMessage(args, opts.Catalog)
	if err != nil {
		return err
	}
	if m.Len() == 0 {
		return fmt.Errorf("nothing to encode: %w", wire.ErrEmptyMessage)
	}
	data := codec.Encode(m)

	if opts.Output != "" {
		flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		if opts.Framed {
			flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		}
		f, openErr := os.OpenFile(opts.Output, flags, 0644)
		if openErr != nil {
			return fmt.Errorf("failed to create output file: %w", openErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", cerr)
			}
		}()
		w = f
	}

	switch {
	case opts.Framed:
		err = frame.NewWriter(w).WriteFrame(data)
	case opts.Raw:
		_, err = w.Write(data)
	default:
		_, err = fmt.Fprintln(w, hex.EncodeToString(data))
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
