// Package adapters provides database adapter implementations for the PostgreSQL defaults backend.
//
// The backend works with pgx.Pool, sql.DB and sqlx.DB connections. Each adapter hides the
// specifics of its library behind the common DBAdapter interface, so the backend only deals
// with fully built SQL strings, rows and results.
package adapters
