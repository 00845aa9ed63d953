package postgresengine

import (
	"context"

	"github.com/AntonStoeckl/property-kit-go/defaults"
	"github.com/AntonStoeckl/property-kit-go/internal/suite"
)

// Logger interface for SQL query logging, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger interface for context-aware logging with automatic trace correlation.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// Option defines a functional option for configuring a Backend.
type Option func(*Backend) error

// WithSuite sets the namespace of the Backend. Empty or invalid names select defaults.DefaultSuite.
func WithSuite(name string) Option {
	return func(b *Backend) error {
		b.suite = suite.Resolve(name)
		return nil
	}
}

// WithTableName sets the table name for the Backend.
func WithTableName(tableName string) Option {
	return func(b *Backend) error {
		if tableName == "" {
			return defaults.ErrEmptyTableName
		}

		b.tableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the Backend.
//
// Debug level: SQL statements with execution timing (development use)
// Warn level: Non-critical issues like cleanup failures
// Error level: Failures that are returned to the caller.
func WithLogger(logger Logger) Option {
	return func(b *Backend) error {
		b.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Backend.
// It receives the same messages as the Logger, with the operation context for trace correlation.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(b *Backend) error {
		b.contextualLogger = logger
		return nil
	}
}
