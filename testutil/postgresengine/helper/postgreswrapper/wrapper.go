package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/property-kit-go/defaults/postgresengine"
	"github.com/AntonStoeckl/property-kit-go/testutil/postgresengine/config"
)

// Adapter type constants
const (
	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"

	pingTimeout = 2 * time.Second
)

// Wrapper interface to abstract over different adapter types.
type Wrapper interface {
	GetBackend() postgresengine.Backend
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing.
type PGXPoolWrapper struct {
	pool    *pgxpool.Pool
	backend postgresengine.Backend
}

func (w *PGXPoolWrapper) GetBackend() postgresengine.Backend {
	return w.backend
}

func (w *PGXPoolWrapper) Close() {
	w.pool.Close()
}

// Pool returns the underlying connection pool.
func (w *PGXPoolWrapper) Pool() *pgxpool.Pool {
	return w.pool
}

// SQLDBWrapper wraps sql.DB-based testing.
type SQLDBWrapper struct {
	db      *sql.DB
	backend postgresengine.Backend
}

func (w *SQLDBWrapper) GetBackend() postgresengine.Backend {
	return w.backend
}

func (w *SQLDBWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// DB returns the underlying database handle.
func (w *SQLDBWrapper) DB() *sql.DB {
	return w.db
}

// SQLXWrapper wraps sqlx.DB-based testing.
type SQLXWrapper struct {
	db      *sqlx.DB
	backend postgresengine.Backend
}

func (w *SQLXWrapper) GetBackend() postgresengine.Backend {
	return w.backend
}

func (w *SQLXWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// DB returns the underlying database handle.
func (w *SQLXWrapper) DB() *sqlx.DB {
	return w.db
}

// AdapterType returns the adapter selected by the ADAPTER_TYPE environment variable.
func AdapterType() string {
	adapterType := strings.ToLower(os.Getenv("ADAPTER_TYPE"))
	if adapterType == "" {
		return typePGXPool
	}

	return adapterType
}

// CreateWrapperWithTestConfig creates the wrapper for the selected adapter, makes sure the table exists,
// and skips the test if the database is not reachable.
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresengine.Option) Wrapper {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	var wrapper Wrapper

	switch adapterType := AdapterType(); adapterType {
	case typePGXPool:
		poolConfig, err := config.PostgresPGXPoolTestConfig()
		require.NoError(t, err, "error parsing pgx pool config")

		pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
		require.NoError(t, err, "error creating DB pool in test setup")

		if pingErr := pool.Ping(ctx); pingErr != nil {
			pool.Close()
			t.Skipf("postgres not reachable: %v", pingErr)
		}

		backend, err := postgresengine.NewBackendFromPGXPool(pool, options...)
		require.NoError(t, err, "error creating backend")

		wrapper = &PGXPoolWrapper{pool: pool, backend: backend}

	case typeSQLDB:
		db, err := config.PostgresSQLDBTestConfig()
		require.NoError(t, err, "error opening sql.DB")

		if pingErr := db.PingContext(ctx); pingErr != nil {
			_ = db.Close()
			t.Skipf("postgres not reachable: %v", pingErr)
		}

		backend, err := postgresengine.NewBackendFromSQLDB(db, options...)
		require.NoError(t, err, "error creating backend")

		wrapper = &SQLDBWrapper{db: db, backend: backend}

	case typeSQLXDB:
		db, err := config.PostgresSQLXTestConfig()
		require.NoError(t, err, "error opening sqlx.DB")

		if pingErr := db.PingContext(ctx); pingErr != nil {
			_ = db.Close()
			t.Skipf("postgres not reachable: %v", pingErr)
		}

		backend, err := postgresengine.NewBackendFromSQLX(db, options...)
		require.NoError(t, err, "error creating backend")

		wrapper = &SQLXWrapper{db: db, backend: backend}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterType))
	}

	require.NoError(t, wrapper.GetBackend().CreateTable(context.Background()), "error creating the table")

	return wrapper
}

// CleanUp deletes all slots of the wrapper's suite.
func CleanUp(t testing.TB, wrapper Wrapper) {
	_, err := wrapper.GetBackend().Reset(context.Background())
	require.NoError(t, err, "error cleaning up the suite")
}
