// Package config provides the infrastructure configuration of the preferences example:
// the PostgreSQL connection pool and OpenTelemetry providers that export to stdout.
package config
