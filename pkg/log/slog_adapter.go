package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes capture events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter returns a SlogAdapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event as one structured record.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("category", event.Category.String()),
	}

	switch {
	case event.Message != nil:
		attrs = append(attrs,
			slog.Int("size", event.Message.Size),
			slog.Int("fields", event.Message.FieldCount),
			slog.Uint64("checksum", uint64(event.Message.Checksum)),
		)
		if event.Message.Truncated {
			attrs = append(attrs, slog.Bool("truncated", true))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_kind", event.Error.Kind),
			slog.String("error_msg", event.Error.Message),
			slog.Int("size", event.Error.Size),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "codec", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
