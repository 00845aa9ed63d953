package memoryengine

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/property-kit-go/internal/suite"
)

const isolatedSuitePrefix = "isolated-"

type slot struct {
	value   any
	data    []byte
	isBytes bool
}

type storage struct {
	mu    sync.RWMutex
	slots map[string]slot
}

func newStorage() *storage {
	return &storage{slots: make(map[string]slot)}
}

var (
	suitesMu sync.Mutex
	suites   = make(map[string]*storage)
)

// Backend keeps slots in memory. It is safe for concurrent use.
type Backend struct {
	suite   string
	storage *storage
}

// NewBackend returns a Backend for the named suite. All backends of one suite share their slots.
func NewBackend(suiteName string) *Backend {
	name := suite.Resolve(suiteName)

	suitesMu.Lock()
	defer suitesMu.Unlock()

	st, ok := suites[name]
	if !ok {
		st = newStorage()
		suites[name] = st
	}

	return &Backend{suite: name, storage: st}
}

// NewIsolatedBackend returns a Backend with private storage under a unique suite name.
func NewIsolatedBackend() *Backend {
	return &Backend{
		suite:   isolatedSuitePrefix + uuid.NewString(),
		storage: newStorage(),
	}
}

// Suite returns the suite name.
func (b *Backend) Suite() string {
	return b.suite
}

// Value returns the native value of the slot. For byte slots it returns a copy of the bytes.
func (b *Backend) Value(_ context.Context, key string) (any, bool, error) {
	b.storage.mu.RLock()
	defer b.storage.mu.RUnlock()

	s, ok := b.storage.slots[key]
	if !ok {
		return nil, false, nil
	}

	if s.isBytes {
		return slices.Clone(s.data), true, nil
	}

	return s.value, true, nil
}

// SetValue stores a native value.
func (b *Backend) SetValue(_ context.Context, key string, value any) error {
	b.storage.mu.Lock()
	defer b.storage.mu.Unlock()

	b.storage.slots[key] = slot{value: value}

	return nil
}

// Bytes returns a copy of the bytes of the slot. Native slots are reported as not found.
func (b *Backend) Bytes(_ context.Context, key string) ([]byte, bool, error) {
	b.storage.mu.RLock()
	defer b.storage.mu.RUnlock()

	s, ok := b.storage.slots[key]
	if !ok || !s.isBytes {
		return nil, false, nil
	}

	return slices.Clone(s.data), true, nil
}

// SetBytes stores a copy of data.
func (b *Backend) SetBytes(_ context.Context, key string, data []byte) error {
	b.storage.mu.Lock()
	defer b.storage.mu.Unlock()

	b.storage.slots[key] = slot{data: slices.Clone(data), isBytes: true}

	return nil
}

// Delete removes the slot. Missing keys are ignored.
func (b *Backend) Delete(_ context.Context, key string) error {
	b.storage.mu.Lock()
	defer b.storage.mu.Unlock()

	delete(b.storage.slots, key)

	return nil
}

// Has reports whether the slot holds anything.
func (b *Backend) Has(_ context.Context, key string) (bool, error) {
	b.storage.mu.RLock()
	defer b.storage.mu.RUnlock()

	_, ok := b.storage.slots[key]

	return ok, nil
}

// Keys returns the sorted keys of all slots in the suite.
func (b *Backend) Keys() []string {
	b.storage.mu.RLock()
	defer b.storage.mu.RUnlock()

	keys := make([]string, 0, len(b.storage.slots))
	for key := range b.storage.slots {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}

// Reset removes all slots of the suite, for every Backend sharing it.
func (b *Backend) Reset() {
	b.storage.mu.Lock()
	defer b.storage.mu.Unlock()

	b.storage.slots = make(map[string]slot)
}
