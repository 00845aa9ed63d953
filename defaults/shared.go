package defaults

import (
	"sync"

	"github.com/AntonStoeckl/property-kit-go/defaults/memoryengine"
)

var _ Backend = (*memoryengine.Backend)(nil)

var shared = sync.OnceValue(func() *Store {
	return &Store{
		backend: memoryengine.NewBackend(DefaultSuite),
		codec:   NewJSONCodec(),
	}
})

// Shared returns the process-wide Store over the default in-memory suite.
// It is created on first access and lives for the lifetime of the process.
func Shared() *Store {
	return shared()
}

// NewSuiteStore creates a Store over the in-memory suite with the given name.
// Stores created for the same suite share their slots; an empty or invalid name selects DefaultSuite.
func NewSuiteStore(suite string, options ...Option) (*Store, error) {
	return NewStore(memoryengine.NewBackend(suite), options...)
}
