package watch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/property-kit-go/watch"
)

func Test_Path_Label(t *testing.T) {
	testCases := []struct {
		path     watch.Path
		expected string
	}{
		{"title", "title"},
		{"window.size", "window_size"},
		{"a/b-c d", "a_b_c_d"},
		{"snake_case2", "snake_case2"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(string(tc.path), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.path.Label())
		})
	}
}

func Test_Options_Has(t *testing.T) {
	// setup
	options := watch.OptionNew | watch.OptionPrior

	// assert
	assert.True(t, options.Has(watch.OptionNew))
	assert.True(t, options.Has(watch.OptionNew|watch.OptionPrior))
	assert.False(t, options.Has(watch.OptionOld))
	assert.False(t, options.Has(watch.OptionNew|watch.OptionOld))
}

func Test_Options_Ptr_ReturnsACopy(t *testing.T) {
	// setup
	options := watch.OptionNew

	// act
	ptr := options.Ptr()
	*ptr = watch.OptionOld

	// assert
	assert.Equal(t, watch.OptionNew, options)
}
