package commands

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/keeko-protocol/keeko-go/pkg/inspect"
	"github.com/keeko-protocol/keeko-go/pkg/log"
)

// ParseDirectionFlag parses a direction name (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "decode":
		return log.DirectionDecode, nil
	case "encode":
		return log.DirectionEncode, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be decode or encode)", s)
	}
}

// ParseCategoryFlag parses a category name (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return log.CategoryMessage, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be message or error)", s)
	}
}

// RunCaptureView prints every capture event matching filter.
func RunCaptureView(path string, filter log.Filter, w io.Writer) error {
	return eachEvent(path, filter, func(event log.Event) error {
		formatEvent(w, event)
		return nil
	})
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [session:%s] %-6s %s\n",
		ts, shortenSessionID(event.SessionID), event.Direction, event.Category)

	switch {
	case event.Message != nil:
		msg := event.Message
		fmt.Fprintf(w, "  Size: %d bytes, %d fields, checksum 0x%04x\n", msg.Size, msg.FieldCount, msg.Checksum)
		for _, f := range msg.Fields {
			fmt.Fprintf(w, "  0x%08x %-6s %v\n", f.Key, f.Kind, formatCapturedValue(f.Value))
		}
		writeData(w, msg.Data, msg.Truncated)
	case event.Error != nil:
		fmt.Fprintf(w, "  Kind: %s\n", event.Error.Kind)
		fmt.Fprintf(w, "  Message: %s\n", event.Error.Message)
		fmt.Fprintf(w, "  Size: %d bytes\n", event.Error.Size)
		writeData(w, event.Error.Data, len(event.Error.Data) < event.Error.Size)
	}

	fmt.Fprintln(w)
}

func writeData(w io.Writer, data []byte, truncated bool) {
	if len(data) == 0 {
		return
	}
	fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(data))
	if truncated {
		fmt.Fprint(w, " (truncated)")
	}
	fmt.Fprintln(w)
}

func formatCapturedValue(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(v)
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// RunCaptureExport writes matching events as JSON lines.
func RunCaptureExport(path string, filter log.Filter, w io.Writer) error {
	encoder := json.NewEncoder(w)
	return eachEvent(path, filter, func(event log.Event) error {
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		return nil
	})
}

func eachEvent(path string, filter log.Filter, fn func(log.Event) error) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := fn(event); err != nil {
			return err
		}
	}
}

// ParseKeyFlag parses a field key (decimal, 0x hex or @name).
func ParseKeyFlag(s string) (uint32, error) {
	return inspect.ParseKey(s)
}
