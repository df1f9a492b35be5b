package commands

import (
	"fmt"
	"io"

	"github.com/keeko-protocol/keeko-go/pkg/frame"
	"github.com/keeko-protocol/keeko-go/pkg/inspect"
	"github.com/keeko-protocol/keeko-go/pkg/schema"
	"github.com/keeko-protocol/keeko-go/pkg/wire"
)

// RunDecode decodes data and prints its fields. With a catalog, fields are
// named and the message is validated after printing.
func RunDecode(data []byte, catalog *schema.Catalog, codec *wire.Codec, w io.Writer) error {
	m, err := codec.Decode(data)
	if err != nil {
		return fmt.Errorf("decode failed (%s): %w", wire.ErrorKind(err), err)
	}

	f := inspect.NewFormatter()
	if catalog != nil {
		f.Names = catalog
	}
	if err := f.FormatMessage(w, m); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d fields, %d bytes\n", m.Len(), len(data))

	if catalog != nil {
		if err := catalog.Validate(m); err != nil {
			return fmt.Errorf("message does not match catalog %q: %w", catalog.Name, err)
		}
	}
	return nil
}

// RunDecodeStream decodes every framed message in r. Undecodable messages
// are reported and skipped; the returned error counts them.
func RunDecodeStream(r io.Reader, catalog *schema.Catalog, codec *wire.Codec, w io.Writer) error {
	f := inspect.NewFormatter()
	if catalog != nil {
		f.Names = catalog
	}

	mr := frame.NewMessageReader(r, codec)
	var total, failed int
	for {
		m, err := mr.ReadMessage()
		if err == io.EOF {
			break
		}
		total++
		fmt.Fprintf(w, "--- message %d ---\n", total)
		if err != nil {
			if wire.ErrorKind(err) == "ERROR" {
				return fmt.Errorf("message %d: %w", total, err)
			}
			failed++
			fmt.Fprintf(w, "error (%s): %v\n\n", wire.ErrorKind(err), err)
			continue
		}
		if err := f.FormatMessage(w, m); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d messages, %d failed\n", total, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d messages failed to decode", failed, total)
	}
	return nil
}

// RunDump prints an annotated wire listing of data.
func RunDump(data []byte, catalog *schema.Catalog, w io.Writer) error {
	f := inspect.NewFormatter()
	if catalog != nil {
		f.Names = catalog
	}
	if err := f.Dump(w, data); err != nil {
		return fmt.Errorf("dump failed (%s): %w", wire.ErrorKind(err), err)
	}
	return nil
}

// RunKey prints the CRC32 field key of each name.
func RunKey(names []string, w io.Writer) error {
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "0x%08x  %d  %s\n", wire.KeyOf(name), wire.KeyOf(name), name); err != nil {
			return err
		}
	}
	return nil
}
