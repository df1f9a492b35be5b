package log

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// CaptureVersion is the capture file format version written after the magic.
const CaptureVersion = 1

// captureHeader opens every non-empty capture file: "KCAP" then the version.
var captureHeader = []byte{'K', 'C', 'A', 'P', CaptureVersion}

// ErrNotCapture is returned when a file does not start with the capture header.
var ErrNotCapture = errors.New("log: not a keeko capture file")

// encMode is the CBOR encoder mode for capture events.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for capture events.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create capture CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create capture CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes an event to CBOR bytes.
func EncodeEvent(event Event) ([]byte, error) {
	return encMode.Marshal(event)
}

// DecodeEvent decodes CBOR bytes into an event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := decMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder returns a CBOR event encoder writing to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a CBOR event decoder reading from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}

// WriteCaptureHeader writes the capture file header to w.
func WriteCaptureHeader(w io.Writer) error {
	_, err := w.Write(captureHeader)
	return err
}

// ReadCaptureHeader consumes and checks the capture file header. It returns
// io.EOF when r is empty, which callers treat as a capture with no events.
func ReadCaptureHeader(r io.Reader) error {
	buf := make([]byte, len(captureHeader))
	n, err := io.ReadFull(r, buf)
	if n == 0 && errors.Is(err, io.EOF) {
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("%w: short header", ErrNotCapture)
	}
	return checkCaptureHeader(buf)
}

func checkCaptureHeader(buf []byte) error {
	magic := captureHeader[:len(captureHeader)-1]
	if !bytes.Equal(buf[:len(magic)], magic) {
		return ErrNotCapture
	}
	if v := buf[len(magic)]; v != CaptureVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrNotCapture, v)
	}
	return nil
}
