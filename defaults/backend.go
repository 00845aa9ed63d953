package defaults

import (
	"context"

	"github.com/AntonStoeckl/property-kit-go/internal/suite"
)

// DefaultSuite is the namespace a backend falls back to when no valid suite name is given.
const DefaultSuite = suite.Default

// Backend is the persistence contract a Store is built on.
//
// A slot holds either a native value (written with SetValue) or a byte sequence (written with SetBytes).
// Value on a byte slot returns the raw []byte; Bytes on a native slot reports the slot as not found.
// Delete must not fail for a missing key.
type Backend interface {
	Value(ctx context.Context, key string) (any, bool, error)
	SetValue(ctx context.Context, key string, value any) error
	Bytes(ctx context.Context, key string) ([]byte, bool, error)
	SetBytes(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	Suite() string
}

// ResolveSuite returns the effective namespace for name, falling back to DefaultSuite
// for empty or invalid names.
func ResolveSuite(name string) string {
	return suite.Resolve(name)
}
