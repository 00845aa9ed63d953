package postgresengine

import (
	"fmt"
	"strconv"
	"time"

	"github.com/AntonStoeckl/property-kit-go/defaults"
)

const (
	kindBool   = "bool"
	kindInt    = "int"
	kindUint   = "uint"
	kindFloat  = "float"
	kindString = "string"
	kindTime   = "time"
	kindBytes  = "bytes"
)

// encodeNative returns the kind tag and the text representation of a native value.
func encodeNative(value any) (string, string, error) {
	switch v := value.(type) {
	case bool:
		return kindBool, strconv.FormatBool(v), nil
	case string:
		return kindString, v, nil
	case int:
		return kindInt, strconv.FormatInt(int64(v), 10), nil
	case int8:
		return kindInt, strconv.FormatInt(int64(v), 10), nil
	case int16:
		return kindInt, strconv.FormatInt(int64(v), 10), nil
	case int32:
		return kindInt, strconv.FormatInt(int64(v), 10), nil
	case int64:
		return kindInt, strconv.FormatInt(v, 10), nil
	case uint:
		return kindUint, strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return kindUint, strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return kindUint, strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return kindUint, strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return kindUint, strconv.FormatUint(v, 10), nil
	case float32:
		return kindFloat, strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case float64:
		return kindFloat, strconv.FormatFloat(v, 'g', -1, 64), nil
	case time.Time:
		return kindTime, v.Format(time.RFC3339Nano), nil
	default:
		return "", "", fmt.Errorf("%w: %T", defaults.ErrUnsupportedNativeType, value)
	}
}

// decodeNative parses the text representation of a native value into its widest Go type.
// Text that does not parse as its kind is returned as it is, so the caller sees a value
// of the wrong type and treats it like any other undecodable data.
func decodeNative(kind, text string) any {
	var (
		value any
		err   error
	)

	switch kind {
	case kindBool:
		value, err = strconv.ParseBool(text)
	case kindInt:
		value, err = strconv.ParseInt(text, 10, 64)
	case kindUint:
		value, err = strconv.ParseUint(text, 10, 64)
	case kindFloat:
		value, err = strconv.ParseFloat(text, 64)
	case kindTime:
		value, err = time.Parse(time.RFC3339Nano, text)
	default:
		return text
	}

	if err != nil {
		return text
	}

	return value
}
