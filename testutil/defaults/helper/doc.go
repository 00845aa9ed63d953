// Package helper provides test doubles for the defaults packages:
// a capturing slog.Handler, spies for the metrics and tracing collectors, and Backend decorators
// that count calls or lose writes.
package helper
