// Package logtap publishes slog records to in-process subscribers.
//
// Handler wraps another slog.Handler. Every record is passed through to the
// wrapped handler unchanged; records at or above the tap's threshold are also
// converted to an Entry and handed to each subscriber together with the
// record's context. Subscribers run synchronously on the logging goroutine
// and must not block.
package logtap
