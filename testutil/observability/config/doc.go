// Package config provides in-memory OpenTelemetry providers for tests: a meter provider backed by a
// manual reader and a tracer provider that records finished spans. Nothing leaves the process.
package config
