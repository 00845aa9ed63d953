package defaults

import (
	"math"
	"time"
)

// IsNative reports whether v is handed to the backend as it is instead of being encoded by the Codec.
// Only the exact built-in kinds and time.Time qualify; named types based on them are encoded.
func IsNative(v any) bool {
	switch v.(type) {
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		time.Time:
		return true
	default:
		return false
	}
}

// convertNative converts a native value read from a backend into T.
// Backends may widen numbers (int64, uint64, float64) or return timestamps as RFC 3339 strings.
// Conversions that would lose information fail.
func convertNative[T any](raw any) (T, bool) {
	if v, ok := raw.(T); ok {
		return v, true
	}

	var zero T

	switch any(zero).(type) {
	case int:
		return as[T](signedTo[int](raw))
	case int8:
		return as[T](signedTo[int8](raw))
	case int16:
		return as[T](signedTo[int16](raw))
	case int32:
		return as[T](signedTo[int32](raw))
	case int64:
		return as[T](signedTo[int64](raw))
	case uint:
		return as[T](unsignedTo[uint](raw))
	case uint8:
		return as[T](unsignedTo[uint8](raw))
	case uint16:
		return as[T](unsignedTo[uint16](raw))
	case uint32:
		return as[T](unsignedTo[uint32](raw))
	case uint64:
		return as[T](unsignedTo[uint64](raw))
	case float32:
		f, ok := toFloat64(raw)
		return as[T](float32(f), ok)
	case float64:
		return as[T](toFloat64(raw))
	case time.Time:
		s, ok := raw.(string)
		if !ok {
			return zero, false
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		return as[T](parsed, err == nil)
	default:
		return zero, false
	}
}

func as[T any](v any, ok bool) (T, bool) {
	if !ok {
		var zero T
		return zero, false
	}

	t, ok := v.(T)

	return t, ok
}

func signedTo[N int | int8 | int16 | int32 | int64](raw any) (any, bool) {
	n, ok := toInt64(raw)
	if !ok || int64(N(n)) != n {
		return nil, false
	}

	return N(n), true
}

func unsignedTo[N uint | uint8 | uint16 | uint32 | uint64](raw any) (any, bool) {
	n, ok := toUint64(raw)
	if !ok || uint64(N(n)) != n {
		return nil, false
	}

	return N(n), true
}

func toInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint, uint8, uint16, uint32, uint64:
		u, _ := toUint64(v)
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case float32:
		return floatToInt64(float64(v))
	case float64:
		return floatToInt64(v)
	default:
		return 0, false
	}
}

func toUint64(raw any) (uint64, bool) {
	switch v := raw.(type) {
	case uint:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint64:
		return v, true
	case int, int8, int16, int32, int64:
		n, _ := toInt64(v)
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case float32:
		return floatToUint64(float64(v))
	case float64:
		return floatToUint64(v)
	default:
		return 0, false
	}
}

func toFloat64(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int, int8, int16, int32, int64:
		n, _ := toInt64(v)
		return float64(n), true
	case uint, uint8, uint16, uint32, uint64:
		n, _ := toUint64(v)
		return float64(n), true
	default:
		return 0, false
	}
}

func floatToInt64(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}

	return int64(f), true
}

func floatToUint64(f float64) (uint64, bool) {
	if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
		return 0, false
	}

	return uint64(f), true
}
