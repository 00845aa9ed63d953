package defaults

import (
	"context"
	"fmt"
)

// Property is a typed storage slot. Two properties address the same slot iff their keys are equal;
// the type parameter is not part of the storage identity.
type Property[T any] struct {
	key string
}

// NewProperty creates a Property for key.
func NewProperty[T any](key string) Property[T] {
	return Property[T]{key: key}
}

// Key returns the storage key of the Property.
func (p Property[T]) Key() string {
	return p.key
}

// Get returns the stored value and true, or the zero value and false if the slot is empty.
//
// Stored data that can not be decoded into T is reported as absent, not as an error.
// Errors are only returned for backend failures.
func (p Property[T]) Get(ctx context.Context, s *Store) (T, bool, error) {
	var zero T

	if p.key == "" {
		return zero, false, ErrEmptyKey
	}

	observer, ctx := s.startOperation(ctx, operationGet, p.key)

	value, found, err := p.load(ctx, s)
	if err != nil {
		observer.finishError(errorTypeBackend)
		return zero, false, err
	}

	observer.finishSuccess(map[string]string{spanAttrFound: fmt.Sprintf("%t", found)})

	return value, found, nil
}

// GetOr returns the stored value, or persists defaultValue into the empty slot and returns it.
// Once the default is written, later reads find it, so repeated calls do not write again.
func (p Property[T]) GetOr(ctx context.Context, s *Store, defaultValue T) (T, error) {
	value, _, err := p.getOr(ctx, s, defaultValue)
	return value, err
}

// MustGetOr is like GetOr but panics on backend errors, and with ErrDefaultNotPersisted
// if the default value was written but the slot is still empty afterwards.
func (p Property[T]) MustGetOr(ctx context.Context, s *Store, defaultValue T) T {
	value, persisted, err := p.getOr(ctx, s, defaultValue)
	if err != nil {
		panic(err)
	}

	if persisted {
		has, hasErr := s.Has(ctx, p.key)
		if hasErr != nil {
			panic(hasErr)
		}

		if !has {
			panic(fmt.Errorf("%w: key %q, value %v", ErrDefaultNotPersisted, p.key, defaultValue))
		}
	}

	return value
}

// Set stores *value, or deletes the slot if value is nil.
func (p Property[T]) Set(ctx context.Context, s *Store, value *T) error {
	if p.key == "" {
		return ErrEmptyKey
	}

	observer, ctx := s.startOperation(ctx, operationSet, p.key)

	var err error
	if value == nil {
		err = s.delete(ctx, p.key)
	} else {
		err = s.write(ctx, p.key, *value, isNativeType[T]())
	}

	if err != nil {
		observer.finishError(errorTypeFor(err))
		return err
	}

	observer.finishSuccess(map[string]string{spanAttrDeleted: fmt.Sprintf("%t", value == nil)})

	return nil
}

// SetOr stores *value, or defaultValue if value is nil. It never deletes the slot.
func (p Property[T]) SetOr(ctx context.Context, s *Store, value *T, defaultValue T) error {
	if value == nil {
		value = &defaultValue
	}

	return p.Set(ctx, s, value)
}

// Put stores value.
func (p Property[T]) Put(ctx context.Context, s *Store, value T) error {
	return p.Set(ctx, s, &value)
}

// Clear deletes the slot. Clearing an empty slot is not an error.
func (p Property[T]) Clear(ctx context.Context, s *Store) error {
	return s.Clear(ctx, p.key)
}

// Has reports whether the slot holds any value, even one that Get can not decode.
func (p Property[T]) Has(ctx context.Context, s *Store) (bool, error) {
	return s.Has(ctx, p.key)
}

// getOr reports whether the default value was written.
func (p Property[T]) getOr(ctx context.Context, s *Store, defaultValue T) (T, bool, error) {
	var zero T

	value, found, err := p.Get(ctx, s)
	if err != nil {
		return zero, false, err
	}

	if found {
		return value, false, nil
	}

	if err = p.SetOr(ctx, s, nil, defaultValue); err != nil {
		return zero, false, err
	}

	s.logDebugContext(ctx, logMsgDefaultPersisted, logAttrKey, p.key)

	return defaultValue, true, nil
}

func (p Property[T]) load(ctx context.Context, s *Store) (T, bool, error) {
	var zero T

	if isNativeType[T]() {
		raw, found, err := s.readNative(ctx, p.key)
		if err != nil || !found {
			return zero, false, err
		}

		value, ok := convertNative[T](raw)
		if !ok {
			s.recordDecodeFailure(ctx, p.key, fmt.Errorf("stored %T can not be converted to %T", raw, zero))
			return zero, false, nil
		}

		return value, true, nil
	}

	data, found, err := s.readBytes(ctx, p.key)
	if err != nil || !found {
		return zero, false, err
	}

	var decoded T
	if err = s.codec.Unmarshal(data, &decoded); err != nil {
		s.recordDecodeFailure(ctx, p.key, err)
		return zero, false, nil
	}

	return decoded, true, nil
}

func isNativeType[T any]() bool {
	var zero T
	return IsNative(zero)
}
