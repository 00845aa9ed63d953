// Package postgresengine provides a PostgreSQL implementation of the defaults.Backend interface.
//
// All suites share one table; a row is identified by (suite, key). Native values are stored
// as text together with a kind tag and parsed back into their widest Go type on read
// (int64, uint64, float64, bool, string, time.Time). Encoded values are stored as BYTEA.
//
// Key features:
//   - Multiple database adapter support (pgx.Pool, sql.DB, sqlx.DB)
//   - Writes are single upsert statements
//   - Configurable suite and table name, dual-logger support
//
// Usage examples:
//
//	db, _ := pgxpool.New(context.Background(), dsn)
//	backend, _ := postgresengine.NewBackendFromPGXPool(
//		db,
//		postgresengine.WithSuite("com.example.app"),
//		postgresengine.WithLogger(logger),
//	)
//	_ = backend.CreateTable(ctx)
//
//	store, _ := defaults.NewStore(backend)
//	volume, _ := defaults.NewProperty[int]("volume").GetOr(ctx, store, 5)
package postgresengine
