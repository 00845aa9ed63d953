package defaults

import "errors"

var (
	// ErrNilBackend is returned when a Store is created without a Backend.
	ErrNilBackend = errors.New("nil backend supplied")

	// ErrNilCodec is returned when WithCodec is called with nil.
	ErrNilCodec = errors.New("nil codec supplied")

	// ErrNilDatabaseConnection is returned when a database backed engine gets a nil connection.
	ErrNilDatabaseConnection = errors.New("nil database connection supplied")

	// ErrEmptyTableName is returned when an engine is configured with an empty table name.
	ErrEmptyTableName = errors.New("empty table name supplied")

	// ErrEmptyKey is returned for any operation on a Property or key that is empty.
	ErrEmptyKey = errors.New("empty key supplied")

	// ErrUnsupportedNativeType is returned when a backend is asked to store a value that is not natively representable.
	ErrUnsupportedNativeType = errors.New("value type is not natively representable")

	// ErrEncodingValueFailed is returned when the codec fails to encode a structured value.
	ErrEncodingValueFailed = errors.New("encoding value failed")

	// ErrReadingValueFailed is returned when the backend fails to read a slot.
	ErrReadingValueFailed = errors.New("reading value failed")

	// ErrWritingValueFailed is returned when the backend fails to write a slot.
	ErrWritingValueFailed = errors.New("writing value failed")

	// ErrDeletingValueFailed is returned when the backend fails to delete a slot.
	ErrDeletingValueFailed = errors.New("deleting value failed")

	// ErrDefaultNotPersisted is the panic value of MustGetOr when a written default value
	// can not be found afterwards. It signals a broken backend, not a runtime condition.
	ErrDefaultNotPersisted = errors.New("default value was not persisted")
)
