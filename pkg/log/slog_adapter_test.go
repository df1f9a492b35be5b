package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func newJSONAdapter(buf *bytes.Buffer) *SlogAdapter {
	handler := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogAdapter(slog.New(handler))
}

func parseEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	if buf.Len() == 0 {
		t.Fatal("no output produced")
	}
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	return entry
}

func TestSlogAdapterLogsMessageEvent(t *testing.T) {
	var buf bytes.Buffer
	newJSONAdapter(&buf).Log(Event{
		Timestamp: time.Now(),
		SessionID: "session-1",
		Direction: DirectionEncode,
		Category:  CategoryMessage,
		Message:   &MessageEvent{Size: 20, FieldCount: 2, Checksum: 0x29B1},
	})

	entry := parseEntry(t, &buf)
	if entry["msg"] != "codec" {
		t.Errorf("msg: got %v", entry["msg"])
	}
	if entry["session_id"] != "session-1" {
		t.Errorf("session_id: got %v", entry["session_id"])
	}
	if entry["direction"] != "ENCODE" {
		t.Errorf("direction: got %v", entry["direction"])
	}
	if entry["size"] != float64(20) || entry["fields"] != float64(2) {
		t.Errorf("size/fields: got %v/%v", entry["size"], entry["fields"])
	}
	if entry["checksum"] != float64(0x29B1) {
		t.Errorf("checksum: got %v", entry["checksum"])
	}
	if _, ok := entry["truncated"]; ok {
		t.Error("truncated should be omitted when false")
	}
}

func TestSlogAdapterLogsErrorEvent(t *testing.T) {
	var buf bytes.Buffer
	newJSONAdapter(&buf).Log(Event{
		Timestamp: time.Now(),
		SessionID: "session-2",
		Direction: DirectionDecode,
		Category:  CategoryError,
		Error:     &ErrorEventData{Kind: "INVALID_LENGTH", Message: "too short", Size: 3},
	})

	entry := parseEntry(t, &buf)
	if entry["category"] != "ERROR" {
		t.Errorf("category: got %v", entry["category"])
	}
	if entry["error_kind"] != "INVALID_LENGTH" || entry["error_msg"] != "too short" {
		t.Errorf("error attrs: got %v / %v", entry["error_kind"], entry["error_msg"])
	}
}

func TestSlogAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	NewSlogAdapter(slog.New(handler)).Log(Event{SessionID: "quiet"})
	if buf.Len() != 0 {
		t.Errorf("expected no output at info level, got %s", buf.String())
	}
}
