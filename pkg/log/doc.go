// Package log captures Keeko codec activity as structured events.
//
// Every encode and decode performed through a wire.Codec with a Logger
// attached produces one Event: a message event describing the buffer and
// its fields, or an error event naming why a buffer was rejected. Capture
// is independent of operational logging (slog); it gives a machine-readable
// trace of what crossed the codec.
//
// # Basic Usage
//
//	// Console during development
//	codec.SetLogger(log.NewSlogAdapter(slog.Default()), sessionID)
//
//	// Capture file for later analysis
//	fl, _ := log.NewFileLogger("link.kcap")
//	codec.SetLogger(log.NewMultiLogger(fl, log.NewSlogAdapter(slog.Default())), sessionID)
//
// # File Format
//
// Capture files are a sequence of CBOR-encoded events with integer keys.
// Read them back with Reader, optionally through a Filter, or with
// "keeko capture".
package log
