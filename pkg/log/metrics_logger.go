package log

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsLogger turns capture events into Prometheus metrics.
type MetricsLogger struct {
	messagesTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	messageBytes  *prometheus.HistogramVec
	messageFields prometheus.Histogram
}

// NewMetricsLogger creates the codec metrics and registers them with reg.
// A nil reg registers with the default registry.
func NewMetricsLogger(reg prometheus.Registerer) *MetricsLogger {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &MetricsLogger{
		messagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keeko_codec_messages_total",
				Help: "Total number of messages encoded or decoded",
			},
			[]string{"direction"},
		),

		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keeko_codec_errors_total",
				Help: "Total number of rejected buffers by error kind",
			},
			[]string{"kind"},
		),

		messageBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "keeko_codec_message_bytes",
				Help:    "Encoded message size in bytes",
				Buckets: prometheus.ExponentialBuckets(8, 4, 8),
			},
			[]string{"direction"},
		),

		messageFields: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "keeko_codec_message_fields",
				Help:    "Number of fields per message",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
	}
}

// Log records the event.
func (m *MetricsLogger) Log(event Event) {
	switch {
	case event.Message != nil:
		dir := event.Direction.String()
		m.messagesTotal.WithLabelValues(dir).Inc()
		m.messageBytes.WithLabelValues(dir).Observe(float64(event.Message.Size))
		m.messageFields.Observe(float64(event.Message.FieldCount))
	case event.Error != nil:
		m.errorsTotal.WithLabelValues(event.Error.Kind).Inc()
	}
}

var _ Logger = (*MetricsLogger)(nil)
