// Package postgreswrapper provides test utilities for abstracting over the PostgreSQL database adapters.
//
// The same test suite runs against pgx.Pool, sql.DB or sqlx.DB; the adapter is selected with
// the ADAPTER_TYPE environment variable (pgx.pool, sql.db, sqlx.db; pgx.pool if unset).
// Tests are skipped in -short mode and when the test database can not be reached.
//
// Usage:
//
//	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t, postgresengine.WithSuite(suiteName))
//	defer wrapper.Close()
//
//	backend := wrapper.GetBackend()
package postgreswrapper
