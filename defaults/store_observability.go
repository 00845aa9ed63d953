package defaults

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	operationGet   = "get"
	operationSet   = "set"
	operationClear = "clear"

	spanNamePrefix = "defaults."

	metricOperationDuration = "defaults_operation_duration_seconds"
	metricOperations        = "defaults_operations_total"
	metricDecodeFailures    = "defaults_decode_failures_total"
	metricErrors            = "defaults_errors_total"

	statusSuccess = "success"
	statusError   = "error"

	spanAttrOperation  = "operation"
	spanAttrKey        = "key"
	spanAttrSuite      = "suite"
	spanAttrFound      = "found"
	spanAttrDeleted    = "deleted"
	spanAttrErrorType  = "error_type"
	spanAttrDurationMS = "duration_ms"

	labelStatus = "status"

	errorTypeBackend = "backend_error"
	errorTypeEncode  = "encode_error"

	logMsgReadFailed       = "failed to read value from backend"
	logMsgWriteFailed      = "failed to write value to backend"
	logMsgDeleteFailed     = "failed to delete value from backend"
	logMsgEncodeFailed     = "failed to encode value"
	logMsgDecodeFailed     = "stored value could not be decoded, treating it as absent"
	logMsgDefaultPersisted = "default value persisted"

	logAttrKey   = "key"
	logAttrCodec = "codec"
	logAttrError = "error"
)

// operationObserver bundles the span and the metrics of a single Store operation.
type operationObserver struct {
	s         *Store
	ctx       context.Context
	span      SpanContext
	operation string
	start     time.Time
}

// startOperation starts tracing and timing for one operation on key.
func (s *Store) startOperation(ctx context.Context, operation, key string) (*operationObserver, context.Context) {
	observer := &operationObserver{
		s:         s,
		operation: operation,
		start:     time.Now(),
	}

	if s.tracingCollector != nil {
		ctx, observer.span = s.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, map[string]string{
			spanAttrOperation: operation,
			spanAttrKey:       key,
			spanAttrSuite:     s.backend.Suite(),
		})
	}

	observer.ctx = ctx

	return observer, ctx
}

func (o *operationObserver) finishSuccess(attrs map[string]string) {
	duration := time.Since(o.start)

	o.s.recordOperationMetrics(o.ctx, o.operation, statusSuccess, duration)

	if o.span == nil {
		return
	}

	o.span.SetStatus(statusSuccess)
	o.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.3f", toMilliseconds(duration)))

	for key, value := range attrs {
		o.span.AddAttribute(key, value)
	}

	o.s.tracingCollector.FinishSpan(o.span, statusSuccess, attrs)
}

func (o *operationObserver) finishError(errorType string) {
	duration := time.Since(o.start)

	o.s.recordOperationMetrics(o.ctx, o.operation, statusError, duration)
	o.s.incrementCounter(o.ctx, metricErrors, map[string]string{
		spanAttrOperation: o.operation,
		spanAttrErrorType: errorType,
		spanAttrSuite:     o.s.backend.Suite(),
	})

	if o.span == nil {
		return
	}

	o.span.SetStatus(statusError)
	o.span.AddAttribute(spanAttrErrorType, errorType)
	o.s.tracingCollector.FinishSpan(o.span, statusError, map[string]string{spanAttrErrorType: errorType})
}

func (s *Store) recordOperationMetrics(ctx context.Context, operation, status string, duration time.Duration) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       status,
		spanAttrSuite:     s.backend.Suite(),
	}

	if contextualCollector, ok := s.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricOperationDuration, duration, labels)
	} else {
		s.metricsCollector.RecordDuration(metricOperationDuration, duration, labels)
	}

	s.incrementCounter(ctx, metricOperations, labels)
}

func (s *Store) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if s.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := s.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	s.metricsCollector.IncrementCounter(metric, labels)
}

// recordDecodeFailure logs at debug level only. Decode failures are a data problem, the caller sees absence.
func (s *Store) recordDecodeFailure(ctx context.Context, key string, err error) {
	s.logDebugContext(ctx, logMsgDecodeFailed, logAttrKey, key, logAttrCodec, s.codec.Name(), logAttrError, err.Error())
	s.incrementCounter(ctx, metricDecodeFailures, map[string]string{
		logAttrCodec:  s.codec.Name(),
		spanAttrSuite: s.backend.Suite(),
	})
}

func (s *Store) logDebugContext(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, msg, args...)
	}
}

func (s *Store) logErrorContext(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if s.logger != nil {
		s.logger.Error(msg, allArgs...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, msg, allArgs...)
	}
}

func errorTypeFor(err error) string {
	if errors.Is(err, ErrEncodingValueFailed) {
		return errorTypeEncode
	}

	return errorTypeBackend
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
