package defaults

import (
	"context"
	"errors"
)

// Store provides typed access to one Backend. Use Property values to read and write slots.
type Store struct {
	backend          Backend
	codec            Codec
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// Option defines a functional option for configuring a Store.
type Option func(*Store) error

// WithCodec sets the Codec used for values that are not natively representable.
// The default is a JSONCodec.
func WithCodec(codec Codec) Option {
	return func(s *Store) error {
		if codec == nil {
			return ErrNilCodec
		}

		s.codec = codec

		return nil
	}
}

// WithLogger sets the logger for the Store.
//
// Debug level: decode failures and written defaults
// Info level: nothing, a settings store is too chatty for that
// Error level: backend failures that are returned to the caller.
func WithLogger(logger Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Store.
// It receives the same messages as the Logger, with the operation context for trace correlation.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(s *Store) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
func WithMetrics(collector MetricsCollector) Option {
	return func(s *Store) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Store.
func WithTracing(collector TracingCollector) Option {
	return func(s *Store) error {
		s.tracingCollector = collector
		return nil
	}
}

// NewStore creates a Store on top of the given Backend with optional configuration.
func NewStore(backend Backend, options ...Option) (*Store, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}

	s := &Store{
		backend: backend,
		codec:   NewJSONCodec(),
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Suite returns the namespace of the underlying backend.
func (s *Store) Suite() string {
	return s.backend.Suite()
}

// Codec returns the codec used for structured values.
func (s *Store) Codec() Codec {
	return s.codec
}

// Clear deletes the slot for key. Clearing a missing key is not an error.
func (s *Store) Clear(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	observer, ctx := s.startOperation(ctx, operationClear, key)

	if err := s.delete(ctx, key); err != nil {
		observer.finishError(errorTypeBackend)
		return err
	}

	observer.finishSuccess(nil)

	return nil
}

// Has reports whether the backend holds any value for key, decodable or not.
func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}

	has, err := s.backend.Has(ctx, key)
	if err != nil {
		s.logErrorContext(ctx, logMsgReadFailed, err, logAttrKey, key)
		return false, errors.Join(ErrReadingValueFailed, err)
	}

	return has, nil
}

func (s *Store) readNative(ctx context.Context, key string) (any, bool, error) {
	raw, found, err := s.backend.Value(ctx, key)
	if err != nil {
		s.logErrorContext(ctx, logMsgReadFailed, err, logAttrKey, key)
		return nil, false, errors.Join(ErrReadingValueFailed, err)
	}

	return raw, found, nil
}

func (s *Store) readBytes(ctx context.Context, key string) ([]byte, bool, error) {
	data, found, err := s.backend.Bytes(ctx, key)
	if err != nil {
		s.logErrorContext(ctx, logMsgReadFailed, err, logAttrKey, key)
		return nil, false, errors.Join(ErrReadingValueFailed, err)
	}

	return data, found, nil
}

// write stores value natively or encoded, depending on the static type of the Property.
func (s *Store) write(ctx context.Context, key string, value any, native bool) error {
	if native {
		if err := s.backend.SetValue(ctx, key, value); err != nil {
			s.logErrorContext(ctx, logMsgWriteFailed, err, logAttrKey, key)
			return errors.Join(ErrWritingValueFailed, err)
		}

		return nil
	}

	data, err := s.codec.Marshal(value)
	if err != nil {
		s.logErrorContext(ctx, logMsgEncodeFailed, err, logAttrKey, key, logAttrCodec, s.codec.Name())
		return errors.Join(ErrEncodingValueFailed, err)
	}

	if err = s.backend.SetBytes(ctx, key, data); err != nil {
		s.logErrorContext(ctx, logMsgWriteFailed, err, logAttrKey, key)
		return errors.Join(ErrWritingValueFailed, err)
	}

	return nil
}

func (s *Store) delete(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, key); err != nil {
		s.logErrorContext(ctx, logMsgDeleteFailed, err, logAttrKey, key)
		return errors.Join(ErrDeletingValueFailed, err)
	}

	return nil
}
