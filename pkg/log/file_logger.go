package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends CBOR-encoded events to a capture file.
// It is safe for concurrent use.
type FileLogger struct {
	file    *os.File
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

// NewFileLogger opens (or creates, mode 0644) the capture file at path for
// appending. A new or empty file gets the capture header; an existing file
// must already carry it, so events are never appended to an unrelated file.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	if err := prepareCapture(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("capture %s: %w", path, err)
	}
	return &FileLogger{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

func prepareCapture(f *os.File) error {
	buf := make([]byte, len(captureHeader))
	n, err := f.ReadAt(buf, 0)
	switch {
	case n == 0 && errors.Is(err, io.EOF):
		return WriteCaptureHeader(f)
	case n < len(buf):
		return fmt.Errorf("%w: short header", ErrNotCapture)
	}
	return checkCaptureHeader(buf)
}

// Log appends an event. Events logged after Close are dropped.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	// Capture must never fail the codec call it describes.
	_ = l.encoder.Encode(event)
}

// Close flushes the capture file to stable storage and closes it.
// Calling Close more than once is a no-op.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}

	l.closed = true
	syncErr := l.file.Sync()
	if err := l.file.Close(); err != nil {
		return err
	}
	return syncErr
}

var _ Logger = (*FileLogger)(nil)
