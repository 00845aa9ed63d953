package postgresengine

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/property-kit-go/defaults"
	"github.com/AntonStoeckl/property-kit-go/defaults/postgresengine/internal/adapters"
	"github.com/AntonStoeckl/property-kit-go/internal/suite"
)

const (
	defaultTableName = "property_defaults"

	colSuite     = "suite"
	colKey       = "key"
	colKind      = "kind"
	colNative    = "native"
	colData      = "data"
	colUpdatedAt = "updated_at"

	dialectPostgres = "postgres"
	hexEncodeData   = "encode(?, 'hex')"
	hexDecodeData   = "decode(?, 'hex')"
	excludedPrefix  = "EXCLUDED."
	sqlNow          = "NOW()"

	logMsgBuildQueryFailed = "failed to build query"
	logMsgDBQueryFailed    = "database query execution failed"
	logMsgDBExecFailed     = "database statement execution failed"
	logMsgScanRowFailed    = "failed to scan database row"
	logMsgCloseRowsFailed  = "failed to close database rows"
	logMsgHexDecodeFailed  = "failed to decode stored bytes"
	logMsgSQLExecuted      = "executed sql for: "
	logAttrError           = "error"
	logAttrQuery           = "query"
	logAttrKey             = "key"
	logAttrSuite           = "suite"
	logAttrDurationMS      = "duration_ms"
	logAttrRowsAffected    = "rows_affected"
	logActionSelect        = "select"
	logActionUpsert        = "upsert"
	logActionDelete        = "delete"
	logActionCreateTable   = "create table"
)

type sqlQueryString = string

// Backend is a defaults.Backend that keeps its slots in a PostgreSQL table.
type Backend struct {
	db               adapters.DBAdapter
	suite            string
	tableName        string
	logger           Logger
	contextualLogger ContextualLogger
}

var _ defaults.Backend = Backend{}

// NewBackendFromPGXPool creates a new Backend using a pgx Pool with optional configuration.
func NewBackendFromPGXPool(db *pgxpool.Pool, options ...Option) (Backend, error) {
	if db == nil {
		return Backend{}, defaults.ErrNilDatabaseConnection
	}

	return newBackend(adapters.NewPGXAdapter(db), options...)
}

// NewBackendFromSQLDB creates a new Backend using a sql.DB with optional configuration.
func NewBackendFromSQLDB(db *sql.DB, options ...Option) (Backend, error) {
	if db == nil {
		return Backend{}, defaults.ErrNilDatabaseConnection
	}

	return newBackend(adapters.NewSQLAdapter(db), options...)
}

// NewBackendFromSQLX creates a new Backend using a sqlx.DB with optional configuration.
func NewBackendFromSQLX(db *sqlx.DB, options ...Option) (Backend, error) {
	if db == nil {
		return Backend{}, defaults.ErrNilDatabaseConnection
	}

	return newBackend(adapters.NewSQLXAdapter(db), options...)
}

func newBackend(db adapters.DBAdapter, options ...Option) (Backend, error) {
	b := Backend{
		db:        db,
		suite:     suite.Default,
		tableName: defaultTableName,
	}

	for _, option := range options {
		if err := option(&b); err != nil {
			return Backend{}, err
		}
	}

	return b, nil
}

// Suite returns the namespace of the Backend.
func (b Backend) Suite() string {
	return b.suite
}

// TableName returns the name of the table the Backend reads and writes.
func (b Backend) TableName() string {
	return b.tableName
}

// CreateTable creates the table if it does not exist yet.
func (b Backend) CreateTable(ctx context.Context) error {
	sqlQuery := b.buildCreateTableStatement()

	_, err := b.exec(ctx, sqlQuery, logActionCreateTable)

	return err
}

// Value returns the stored value for key. Native values come back in their widest Go type;
// a byte slot returns its []byte.
func (b Backend) Value(ctx context.Context, key string) (any, bool, error) {
	row, found, err := b.selectSlot(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}

	if row.kind == kindBytes {
		data, decodeErr := b.decodeBytes(ctx, key, row.dataHex)
		if decodeErr != nil {
			return nil, false, decodeErr
		}

		return data, true, nil
	}

	return decodeNative(row.kind, row.native), true, nil
}

// SetValue stores a native value for key, replacing whatever the slot held before.
func (b Backend) SetValue(ctx context.Context, key string, value any) error {
	kind, text, err := encodeNative(value)
	if err != nil {
		return err
	}

	return b.upsert(ctx, key, kind, text, nil)
}

// Bytes returns the stored bytes for key. A slot holding a native value is reported as not found.
func (b Backend) Bytes(ctx context.Context, key string) ([]byte, bool, error) {
	row, found, err := b.selectSlot(ctx, key)
	if err != nil || !found || row.kind != kindBytes {
		return nil, false, err
	}

	data, err := b.decodeBytes(ctx, key, row.dataHex)
	if err != nil {
		return nil, false, err
	}

	return data, true, nil
}

// SetBytes stores data for key, replacing whatever the slot held before.
func (b Backend) SetBytes(ctx context.Context, key string, data []byte) error {
	return b.upsert(ctx, key, kindBytes, nil, goqu.L(hexDecodeData, hex.EncodeToString(data)))
}

// Delete removes the slot for key. A missing key is not an error.
func (b Backend) Delete(ctx context.Context, key string) error {
	sqlQuery, err := b.buildDeleteStatement(goqu.Ex{colSuite: b.suite, colKey: key})
	if err != nil {
		return err
	}

	_, err = b.exec(ctx, sqlQuery, logActionDelete)

	return err
}

// Has reports whether a slot exists for key.
func (b Backend) Has(ctx context.Context, key string) (bool, error) {
	_, found, err := b.selectSlot(ctx, key)
	return found, err
}

// Keys returns the keys of all slots in the suite in ascending order.
func (b Backend) Keys(ctx context.Context) ([]string, error) {
	sqlQuery, err := b.buildSelectKeysQuery()
	if err != nil {
		return nil, err
	}

	rows, err := b.query(ctx, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer b.closeRows(ctx, rows)

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if scanErr := rows.Scan(&key); scanErr != nil {
			b.logError(ctx, logMsgScanRowFailed, scanErr)
			return nil, errors.Join(ErrScanningDBRowFailed, scanErr)
		}

		keys = append(keys, key)
	}

	if err = rows.Err(); err != nil {
		b.logError(ctx, logMsgDBQueryFailed, err)
		return nil, errors.Join(ErrQueryingFailed, err)
	}

	return keys, nil
}

// Reset deletes all slots of the suite.
func (b Backend) Reset(ctx context.Context) (int64, error) {
	sqlQuery, err := b.buildDeleteStatement(goqu.Ex{colSuite: b.suite})
	if err != nil {
		return 0, err
	}

	return b.exec(ctx, sqlQuery, logActionDelete)
}

type slotRow struct {
	kind    string
	native  string
	dataHex string
}

func (b Backend) selectSlot(ctx context.Context, key string) (slotRow, bool, error) {
	var row slotRow

	sqlQuery, err := b.buildSelectSlotQuery(key)
	if err != nil {
		return row, false, err
	}

	rows, err := b.query(ctx, sqlQuery)
	if err != nil {
		return row, false, err
	}
	defer b.closeRows(ctx, rows)

	if !rows.Next() {
		if iterErr := rows.Err(); iterErr != nil {
			b.logError(ctx, logMsgDBQueryFailed, iterErr, logAttrKey, key)
			return row, false, errors.Join(ErrQueryingFailed, iterErr)
		}

		return row, false, nil
	}

	if scanErr := rows.Scan(&row.kind, &row.native, &row.dataHex); scanErr != nil {
		b.logError(ctx, logMsgScanRowFailed, scanErr, logAttrKey, key)
		return row, false, errors.Join(ErrScanningDBRowFailed, scanErr)
	}

	return row, true, nil
}

func (b Backend) upsert(ctx context.Context, key, kind string, native any, data any) error {
	sqlQuery, err := b.buildUpsertStatement(key, kind, native, data)
	if err != nil {
		return err
	}

	_, err = b.exec(ctx, sqlQuery, logActionUpsert)

	return err
}

func (b Backend) decodeBytes(ctx context.Context, key, dataHex string) ([]byte, error) {
	data, err := hex.DecodeString(dataHex)
	if err != nil {
		b.logError(ctx, logMsgHexDecodeFailed, err, logAttrKey, key)
		return nil, errors.Join(ErrDecodingStoredBytesFailed, err)
	}

	return data, nil
}

func (b Backend) buildSelectSlotQuery(key string) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(b.tableName).
		Select(
			goqu.C(colKind),
			goqu.COALESCE(goqu.C(colNative), "").As(colNative),
			goqu.COALESCE(goqu.L(hexEncodeData, goqu.C(colData)), "").As(colData),
		).
		Where(goqu.Ex{colSuite: b.suite, colKey: key}).
		Limit(1)

	return b.toSQL(selectStmt)
}

func (b Backend) buildSelectKeysQuery() (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(b.tableName).
		Select(goqu.C(colKey)).
		Where(goqu.Ex{colSuite: b.suite}).
		Order(goqu.C(colKey).Asc())

	return b.toSQL(selectStmt)
}

func (b Backend) buildUpsertStatement(key, kind string, native any, data any) (sqlQueryString, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(b.tableName).
		Rows(goqu.Record{
			colSuite:     b.suite,
			colKey:       key,
			colKind:      kind,
			colNative:    native,
			colData:      data,
			colUpdatedAt: goqu.L(sqlNow),
		}).
		OnConflict(goqu.DoUpdate(colSuite+", "+colKey, goqu.Record{
			colKind:      goqu.L(excludedPrefix + colKind),
			colNative:    goqu.L(excludedPrefix + colNative),
			colData:      goqu.L(excludedPrefix + colData),
			colUpdatedAt: goqu.L(excludedPrefix + colUpdatedAt),
		}))

	return b.toSQL(insertStmt)
}

func (b Backend) buildDeleteStatement(where goqu.Ex) (sqlQueryString, error) {
	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(b.tableName).
		Where(where)

	return b.toSQL(deleteStmt)
}

func (b Backend) buildCreateTableStatement() sqlQueryString {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s TEXT NOT NULL,
	%s TEXT NOT NULL,
	%s TEXT NOT NULL,
	%s TEXT NULL,
	%s BYTEA NULL,
	%s TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (%s, %s)
)`,
		pgx.Identifier{b.tableName}.Sanitize(),
		colSuite, colKey, colKind, colNative, colData, colUpdatedAt,
		colSuite, colKey,
	)
}

// toSQL renders a goqu statement with interpolated values.
func (b Backend) toSQL(stmt interface {
	ToSQL() (string, []any, error)
}) (sqlQueryString, error) {
	sqlQuery, _, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		b.logError(context.Background(), logMsgBuildQueryFailed, toSQLErr)
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (b Backend) query(ctx context.Context, sqlQuery string) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := b.db.Query(ctx, sqlQuery)
	b.logQueryWithDuration(ctx, sqlQuery, logActionSelect, time.Since(start))

	if queryErr != nil {
		b.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, errors.Join(ErrQueryingFailed, queryErr)
	}

	return rows, nil
}

func (b Backend) exec(ctx context.Context, sqlQuery string, action string) (int64, error) {
	start := time.Now()
	result, execErr := b.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)

	if execErr != nil {
		b.logQueryWithDuration(ctx, sqlQuery, action, duration)
		b.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return 0, errors.Join(ErrExecutingStatementFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		rowsAffected = 0
	}

	b.logQueryWithDuration(ctx, sqlQuery, action, duration, logAttrRowsAffected, rowsAffected)

	return rowsAffected, nil
}

// closeRows safely closes database rows and logs any errors.
func (b Backend) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if b.logger != nil {
			b.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}

		if b.contextualLogger != nil {
			b.contextualLogger.WarnContext(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (b Backend) logQueryWithDuration(
	ctx context.Context,
	sqlQuery string,
	action string,
	duration time.Duration,
	args ...any,
) {

	allArgs := []any{logAttrDurationMS, durationToMilliseconds(duration), logAttrSuite, b.suite, logAttrQuery, sqlQuery}
	allArgs = append(allArgs, args...)

	if b.logger != nil {
		b.logger.Debug(logMsgSQLExecuted+action, allArgs...)
	}

	if b.contextualLogger != nil {
		b.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, allArgs...)
	}
}

func (b Backend) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error(), logAttrSuite, b.suite}
	allArgs = append(allArgs, args...)

	if b.logger != nil {
		b.logger.Error(msg, allArgs...)
	}

	if b.contextualLogger != nil {
		b.contextualLogger.ErrorContext(ctx, msg, allArgs...)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
