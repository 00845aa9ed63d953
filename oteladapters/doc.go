// Package oteladapters provides OpenTelemetry implementations of the observability interfaces
// of the defaults package: ContextualLogger, ContextualMetricsCollector and TracingCollector.
//
// Wire them into a Store with defaults.WithContextualLogger, defaults.WithMetrics and
// defaults.WithTracing, and into the Postgres backend with postgresengine.WithContextualLogger.
package oteladapters
