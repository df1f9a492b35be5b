package log

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsLoggerCountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsLogger(reg)

	m.Log(Event{Direction: DirectionEncode, Category: CategoryMessage, Message: &MessageEvent{Size: 20, FieldCount: 2}})
	m.Log(Event{Direction: DirectionDecode, Category: CategoryMessage, Message: &MessageEvent{Size: 20, FieldCount: 2}})
	m.Log(Event{Direction: DirectionDecode, Category: CategoryMessage, Message: &MessageEvent{Size: 9, FieldCount: 1}})
	m.Log(Event{Direction: DirectionDecode, Category: CategoryError, Error: &ErrorEventData{Kind: "MALFORMED"}})
	m.Log(Event{})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.messagesTotal.WithLabelValues("ENCODE")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.messagesTotal.WithLabelValues("DECODE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorsTotal.WithLabelValues("MALFORMED")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.errorsTotal.WithLabelValues("CHECKSUM_MISMATCH")))

	count, err := testutil.GatherAndCount(reg, "keeko_codec_message_fields")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetricsLoggerRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetricsLogger(reg)
	assert.Panics(t, func() { NewMetricsLogger(reg) })
}

func TestMetricsLoggerInMultiLogger(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsLogger(reg)
	NewMultiLogger(NoopLogger{}, m).Log(Event{Category: CategoryError, Error: &ErrorEventData{Kind: "INVALID_LENGTH"}})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorsTotal.WithLabelValues("INVALID_LENGTH")))
}
