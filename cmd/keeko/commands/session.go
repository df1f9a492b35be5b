package commands

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/keeko-protocol/keeko-go/pkg/log"
	"github.com/keeko-protocol/keeko-go/pkg/wire"
)

// SessionOptions selects where codec events go. Each sink is optional.
type SessionOptions struct {
	// CapturePath appends CBOR capture events to this file.
	CapturePath string

	// Slog mirrors events at debug level.
	Slog *slog.Logger

	// Metrics registers codec metrics with this registerer.
	Metrics prometheus.Registerer
}

// Session ties a codec to the capture sinks of one CLI invocation.
type Session struct {
	ID    string
	Codec *wire.Codec

	file *log.FileLogger
}

// OpenSession creates a session with a fresh UUID. Without any sink the
// codec does not capture.
func OpenSession(opts SessionOptions) (*Session, error) {
	s := &Session{
		ID:    uuid.NewString(),
		Codec: wire.NewCodec(),
	}

	var loggers []log.Logger
	if opts.CapturePath != "" {
		fl, err := log.NewFileLogger(opts.CapturePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open capture file: %w", err)
		}
		s.file = fl
		loggers = append(loggers, fl)
	}
	if opts.Slog != nil {
		loggers = append(loggers, log.NewSlogAdapter(opts.Slog))
	}
	if opts.Metrics != nil {
		loggers = append(loggers, log.NewMetricsLogger(opts.Metrics))
	}
	if len(loggers) > 0 {
		s.Codec.SetLogger(log.NewMultiLogger(loggers...), s.ID)
	}
	return s, nil
}

// Close flushes and closes the capture file.
func (s *Session) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
