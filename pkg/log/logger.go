package log

// Logger receives codec capture events.
type Logger interface {
	// Log records an event. Implementations must be safe for concurrent
	// use and should return quickly; Log is called inline with the codec.
	Log(event Event)
}

// NoopLogger drops every event. The zero value is ready to use.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

var _ Logger = NoopLogger{}
