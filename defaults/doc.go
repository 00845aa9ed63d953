// Package defaults provides typed access to a namespaced key-value settings store.
//
// A Property binds a storage key to a Go type. Values of the natively representable
// types (bool, string, all integer and floating point kinds, time.Time) are handed to
// the Backend as they are; every other type is encoded to bytes with the Store's Codec.
//
// Reads that find nothing can fall back to a default value, which is then persisted
// so that later reads (with or without a default) observe the same value. Stored data
// that cannot be decoded into the requested type reads as absent instead of failing.
//
// Key types:
//   - Store: wraps one Backend and one Codec, plus optional observability hooks
//   - Property: a typed storage slot identified by its key
//   - Backend: the persistence contract implemented by memoryengine and postgresengine
//   - Codec: the structured encoding used for non-native types (JSONCodec, CBORCodec)
//
// Common usage pattern:
//
//	var username = defaults.NewProperty[string]("username")
//	var window = defaults.NewProperty[WindowState]("window")
//
//	store, err := defaults.NewSuiteStore("com.example.app")
//	if err != nil {
//		// handle error
//	}
//
//	err = username.Set(ctx, store, ptr("alice"))
//	name, found, err := username.Get(ctx, store)
//	state, err := window.GetOr(ctx, store, WindowState{Width: 800, Height: 600})
package defaults
