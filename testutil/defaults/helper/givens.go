package helper

import (
	"context"
	"math/rand"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/property-kit-go/defaults"
)

// GivenUniqueSuite returns a suite name no other test uses, starting with prefix.
func GivenUniqueSuite(t testing.TB, prefix string) string {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return prefix + "-" + id.String()
}

// GivenValueWasStored puts value into the slot of property.
func GivenValueWasStored[T any](t testing.TB, ctx context.Context, store *defaults.Store, property defaults.Property[T], value T) {
	err := property.Put(ctx, store, value)
	assert.NoError(t, err, "error in arranging test data")
}

// GivenSomeOtherValuesWereStored fills numValues unrelated slots with random natives and encoded values
// and returns their keys.
func GivenSomeOtherValuesWereStored(t testing.TB, ctx context.Context, store *defaults.Store, numValues int) []string {
	keys := make([]string, 0, numValues)

	for i := 0; i < numValues; i++ {
		key := "other." + strconv.Itoa(i)

		switch rand.Intn(3) {
		case 0:
			GivenValueWasStored(t, ctx, store, defaults.NewProperty[int64](key), rand.Int63())
		case 1:
			GivenValueWasStored(t, ctx, store, defaults.NewProperty[string](key), uuid.NewString())
		default:
			GivenValueWasStored(t, ctx, store, defaults.NewProperty[[]float64](key), []float64{rand.Float64(), rand.Float64()})
		}

		keys = append(keys, key)
	}

	return keys
}
