// Package frame carries encoded Keeko messages over byte streams.
//
// A Keeko buffer does not record its own length, so a stream holding more
// than one message prefixes each with a 4-byte little-endian length:
//
//	+--------+-----------------------------+
//	| length | encoded message (length B)  |
//	+--------+-----------------------------+
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/keeko-protocol/keeko-go/pkg/wire"
)

// Framing constants.
const (
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4

	// DefaultMaxFrameSize is the default maximum payload size (1 MiB).
	DefaultMaxFrameSize = 1 << 20
)

// Framing errors.
var (
	// ErrFrameTooLarge indicates the payload exceeds the maximum size.
	ErrFrameTooLarge = errors.New("frame: payload too large")

	// ErrFrameEmpty indicates a zero-length payload.
	ErrFrameEmpty = errors.New("frame: payload is empty")

	// ErrFrameTruncated indicates the stream ended inside a frame.
	ErrFrameTruncated = errors.New("frame: truncated")
)

// Writer writes length-prefixed frames to an underlying writer.
// WriteFrame is safe for concurrent use.
type Writer struct {
	w            io.Writer
	maxFrameSize uint32
	mu           sync.Mutex
}

// NewWriter creates a frame writer with DefaultMaxFrameSize.
func NewWriter(w io.Writer) *Writer {
	return NewWriterWithMaxSize(w, DefaultMaxFrameSize)
}

// NewWriterWithMaxSize creates a frame writer with a custom max size.
func NewWriterWithMaxSize(w io.Writer, maxSize uint32) *Writer {
	return &Writer{w: w, maxFrameSize: maxSize}
}

// WriteFrame writes data with its length prefix.
func (fw *Writer) WriteFrame(data []byte) error {
	if len(data) == 0 {
		return ErrFrameEmpty
	}
	if uint64(len(data)) > uint64(fw.maxFrameSize) {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(data), fw.maxFrameSize)
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	var lengthBuf [LengthPrefixSize]byte
	binary.LittleEndian.PutUint32(lengthBuf[:], uint32(len(data)))

	if _, err := fw.w.Write(lengthBuf[:]); err != nil {
		return fmt.Errorf("failed to write length prefix: %w", err)
	}
	if _, err := fw.w.Write(data); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}

// Reader reads length-prefixed frames from an underlying reader.
type Reader struct {
	r            io.Reader
	maxFrameSize uint32
	lengthBuf    [LengthPrefixSize]byte
}

// NewReader creates a frame reader with DefaultMaxFrameSize.
func NewReader(r io.Reader) *Reader {
	return NewReaderWithMaxSize(r, DefaultMaxFrameSize)
}

// NewReaderWithMaxSize creates a frame reader with a custom max size.
func NewReaderWithMaxSize(r io.Reader, maxSize uint32) *Reader {
	return &Reader{r: r, maxFrameSize: maxSize}
}

// SetMaxFrameSize updates the maximum payload size.
func (fr *Reader) SetMaxFrameSize(size uint32) {
	fr.maxFrameSize = size
}

// ReadFrame reads one frame and returns its payload. It returns io.EOF
// only when the stream ends cleanly between frames.
func (fr *Reader) ReadFrame() ([]byte, error) {
	if _, err := io.ReadFull(fr.r, fr.lengthBuf[:]); err != nil {
		if err == io.EOF {
			return nil, err
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrFrameTruncated
		}
		return nil, fmt.Errorf("failed to read length prefix: %w", err)
	}

	length := binary.LittleEndian.Uint32(fr.lengthBuf[:])
	if length == 0 {
		return nil, ErrFrameEmpty
	}
	if length > fr.maxFrameSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, length, fr.maxFrameSize)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(fr.r, payload); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || err == io.EOF {
			return nil, ErrFrameTruncated
		}
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	return payload, nil
}

// Size returns the framed size of a payload.
func Size(payloadSize int) int {
	return LengthPrefixSize + payloadSize
}

// MessageWriter encodes messages into frames.
type MessageWriter struct {
	fw    *Writer
	codec *wire.Codec
}

// NewMessageWriter returns a writer that encodes with codec. A nil codec
// encodes without capture.
func NewMessageWriter(w io.Writer, codec *wire.Codec) *MessageWriter {
	if codec == nil {
		codec = wire.NewCodec()
	}
	return &MessageWriter{fw: NewWriter(w), codec: codec}
}

// WriteMessage encodes m and writes it as one frame. A message with no
// fields is refused with wire.ErrEmptyMessage since a reader could not
// decode it.
func (mw *MessageWriter) WriteMessage(m *wire.Message) error {
	if m.Len() == 0 {
		return wire.ErrEmptyMessage
	}
	return mw.fw.WriteFrame(mw.codec.Encode(m))
}

// MessageReader decodes messages from frames.
type MessageReader struct {
	fr    *Reader
	codec *wire.Codec
}

// NewMessageReader returns a reader that decodes with codec. A nil codec
// decodes without capture.
func NewMessageReader(r io.Reader, codec *wire.Codec) *MessageReader {
	if codec == nil {
		codec = wire.NewCodec()
	}
	return &MessageReader{fr: NewReader(r), codec: codec}
}

// ReadMessage reads and decodes the next frame. A decode error leaves the
// stream positioned at the following frame, so callers may skip bad
// messages and continue.
func (mr *MessageReader) ReadMessage() (*wire.Message, error) {
	data, err := mr.fr.ReadFrame()
	if err != nil {
		return nil, err
	}
	return mr.codec.Decode(data)
}
