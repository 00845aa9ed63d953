package defaults

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type celsius float64

func Test_IsNative(t *testing.T) {
	native := []any{true, "", 1, int8(1), int16(1), int32(1), int64(1), uint(1), uint8(1), uint16(1),
		uint32(1), uint64(1), float32(1), 1.0, time.Time{}}
	encoded := []any{nil, celsius(1), []byte("x"), []int{1}, map[string]int{}, struct{}{}, new(int), time.Second}

	for _, v := range native {
		assert.True(t, IsNative(v), "%T", v)
	}

	for _, v := range encoded {
		assert.False(t, IsNative(v), "%T", v)
	}
}

func Test_ConvertNative_Integers(t *testing.T) {
	testCases := []struct {
		description string
		convert     func() (any, bool)
		expected    any
		ok          bool
	}{
		{"int64 to int", wrap(convertNative[int], int64(42)), 42, true},
		{"uint64 to int8", wrap(convertNative[int8], uint64(127)), int8(127), true},
		{"int64 overflows int8", wrap(convertNative[int8], int64(128)), int8(0), false},
		{"negative to uint", wrap(convertNative[uint], int64(-1)), uint(0), false},
		{"integral float to int32", wrap(convertNative[int32], 12.0), int32(12), true},
		{"fractional float to int", wrap(convertNative[int], 1.25), 0, false},
		{"huge uint64 to int64", wrap(convertNative[int64], uint64(math.MaxUint64)), int64(0), false},
		{"max uint64 stays uint64", wrap(convertNative[uint64], uint64(math.MaxUint64)), uint64(math.MaxUint64), true},
		{"string to int", wrap(convertNative[int], "12"), 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// act
			value, ok := tc.convert()

			// assert
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, value)
		})
	}
}

func Test_ConvertNative_FloatsAndTime(t *testing.T) {
	// setup
	stamp := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)

	// act
	f32, okF32 := convertNative[float32](2.5)
	f64, okF64 := convertNative[float64](int64(3))
	parsed, okParsed := convertNative[time.Time](stamp.Format(time.RFC3339Nano))
	_, okGarbage := convertNative[time.Time]("yesterday")
	_, okBool := convertNative[bool]("true")

	// assert
	assert.True(t, okF32)
	assert.Equal(t, float32(2.5), f32)
	assert.True(t, okF64)
	assert.Equal(t, 3.0, f64)
	assert.True(t, okParsed)
	assert.True(t, stamp.Equal(parsed))
	assert.False(t, okGarbage)
	assert.False(t, okBool)
}

func wrap[T any](convert func(any) (T, bool), raw any) func() (any, bool) {
	return func() (any, bool) {
		v, ok := convert(raw)
		return v, ok
	}
}
