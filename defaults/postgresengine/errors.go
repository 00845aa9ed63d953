package postgresengine

import "errors"

var (
	// ErrBuildingQueryFailed is returned when goqu fails to render a statement.
	ErrBuildingQueryFailed = errors.New("building query failed")

	// ErrQueryingFailed is returned when a select statement fails.
	ErrQueryingFailed = errors.New("querying failed")

	// ErrScanningDBRowFailed is returned when a result row can not be scanned.
	ErrScanningDBRowFailed = errors.New("scanning db row failed")

	// ErrExecutingStatementFailed is returned when an insert, delete or DDL statement fails.
	ErrExecutingStatementFailed = errors.New("executing statement failed")

	// ErrDecodingStoredBytesFailed is returned when the hex representation of a BYTEA column is malformed.
	ErrDecodingStoredBytesFailed = errors.New("decoding stored bytes failed")
)
