package helper

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/AntonStoeckl/property-kit-go/defaults"
)

// ErrBackendUnavailable is returned by FailingBackend for every operation.
var ErrBackendUnavailable = errors.New("backend unavailable")

// CountingBackend wraps a defaults.Backend and counts write calls.
type CountingBackend struct {
	defaults.Backend
	writes  atomic.Int64
	deletes atomic.Int64
}

// NewCountingBackend wraps inner.
func NewCountingBackend(inner defaults.Backend) *CountingBackend {
	return &CountingBackend{Backend: inner}
}

// SetValue counts and delegates.
func (b *CountingBackend) SetValue(ctx context.Context, key string, value any) error {
	b.writes.Add(1)
	return b.Backend.SetValue(ctx, key, value)
}

// SetBytes counts and delegates.
func (b *CountingBackend) SetBytes(ctx context.Context, key string, data []byte) error {
	b.writes.Add(1)
	return b.Backend.SetBytes(ctx, key, data)
}

// Delete counts and delegates.
func (b *CountingBackend) Delete(ctx context.Context, key string) error {
	b.deletes.Add(1)
	return b.Backend.Delete(ctx, key)
}

// Writes returns the number of SetValue and SetBytes calls.
func (b *CountingBackend) Writes() int {
	return int(b.writes.Load())
}

// Deletes returns the number of Delete calls.
func (b *CountingBackend) Deletes() int {
	return int(b.deletes.Load())
}

// BlackholeBackend accepts every write without error and never stores anything.
type BlackholeBackend struct {
	suite string
}

// NewBlackholeBackend creates a BlackholeBackend reporting suiteName.
func NewBlackholeBackend(suiteName string) *BlackholeBackend {
	return &BlackholeBackend{suite: suiteName}
}

func (b *BlackholeBackend) Suite() string { return b.suite }

func (b *BlackholeBackend) Value(context.Context, string) (any, bool, error) { return nil, false, nil }

func (b *BlackholeBackend) SetValue(context.Context, string, any) error { return nil }

func (b *BlackholeBackend) Bytes(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (b *BlackholeBackend) SetBytes(context.Context, string, []byte) error { return nil }

func (b *BlackholeBackend) Delete(context.Context, string) error { return nil }

func (b *BlackholeBackend) Has(context.Context, string) (bool, error) { return false, nil }

// FailingBackend returns ErrBackendUnavailable from every operation.
type FailingBackend struct{}

func (FailingBackend) Suite() string { return "failing" }

func (FailingBackend) Value(context.Context, string) (any, bool, error) {
	return nil, false, ErrBackendUnavailable
}

func (FailingBackend) SetValue(context.Context, string, any) error { return ErrBackendUnavailable }

func (FailingBackend) Bytes(context.Context, string) ([]byte, bool, error) {
	return nil, false, ErrBackendUnavailable
}

func (FailingBackend) SetBytes(context.Context, string, []byte) error { return ErrBackendUnavailable }

func (FailingBackend) Delete(context.Context, string) error { return ErrBackendUnavailable }

func (FailingBackend) Has(context.Context, string) (bool, error) { return false, ErrBackendUnavailable }
