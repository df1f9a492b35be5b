package wire

import (
	"time"

	"github.com/keeko-protocol/keeko-go/pkg/log"
)

// MaxLogDataSize is the largest buffer copied into a capture event.
// Longer buffers are truncated in the event.
const MaxLogDataSize = 4096

// Codec encodes and decodes messages and optionally reports each
// operation to a capture logger. The zero value behaves exactly like
// Decode and Message.Encode.
type Codec struct {
	logger    log.Logger
	sessionID string
}

// NewCodec returns a codec without a logger.
func NewCodec() *Codec {
	return &Codec{}
}

// SetLogger attaches a capture logger; events carry sessionID.
// Pass nil to disable capture.
func (c *Codec) SetLogger(logger log.Logger, sessionID string) {
	c.logger = logger
	c.sessionID = sessionID
}

// SessionID returns the session ID stamped on capture events.
func (c *Codec) SessionID() string {
	return c.sessionID
}

// Encode encodes m and reports the result.
func (c *Codec) Encode(m *Message) []byte {
	data := m.Encode()
	if c.logger != nil {
		c.logger.Log(c.messageEvent(log.DirectionEncode, data, m))
	}
	return data
}

// Decode decodes data and reports the message or the rejection.
func (c *Codec) Decode(data []byte) (*Message, error) {
	m, err := Decode(data)
	if c.logger != nil {
		if err != nil {
			c.logger.Log(c.errorEvent(data, err))
		} else {
			c.logger.Log(c.messageEvent(log.DirectionDecode, data, m))
		}
	}
	return m, err
}

func (c *Codec) messageEvent(direction log.Direction, data []byte, m *Message) log.Event {
	logData, truncated := truncateForLog(data)
	fields := make([]log.FieldEvent, 0, m.Len())
	for _, key := range m.Keys() {
		v := m.fields[key]
		fields = append(fields, log.FieldEvent{
			Key:   key,
			Kind:  v.Kind().String(),
			Value: Native(v),
		})
	}

	return log.Event{
		Timestamp: time.Now(),
		SessionID: c.sessionID,
		Direction: direction,
		Category:  log.CategoryMessage,
		Message: &log.MessageEvent{
			Size:       len(data),
			FieldCount: m.Len(),
			Checksum:   wireOrder.Uint16(data[len(data)-ChecksumSize:]),
			Data:       logData,
			Truncated:  truncated,
			Fields:     fields,
		},
	}
}

func (c *Codec) errorEvent(data []byte, err error) log.Event {
	logData, _ := truncateForLog(data)
	return log.Event{
		Timestamp: time.Now(),
		SessionID: c.sessionID,
		Direction: log.DirectionDecode,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Kind:    ErrorKind(err),
			Message: err.Error(),
			Size:    len(data),
			Data:    logData,
		},
	}
}

func truncateForLog(data []byte) ([]byte, bool) {
	if len(data) > MaxLogDataSize {
		return append([]byte(nil), data[:MaxLogDataSize]...), true
	}
	return append([]byte(nil), data...), false
}
