// Package config provides PostgreSQL database configuration for testing the postgres defaults backend.
//
// It contains factory functions for creating connections with each supported adapter
// (pgx.Pool, sql.DB, sqlx.DB) against the test database DSN.
package config
