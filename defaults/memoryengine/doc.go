// Package memoryengine provides an in-process implementation of the defaults.Backend contract.
//
// Storage is organised in suites. Backends created for the same suite name share their slots
// for the lifetime of the process, backends for different suites never see each other's slots.
// Empty or invalid suite names select the default suite.
//
// Usage examples:
//
//	backend := memoryengine.NewBackend("com.example.app")
//	store, _ := defaults.NewStore(backend)
//
//	// private storage, useful in tests
//	store, _ := defaults.NewStore(memoryengine.NewIsolatedBackend())
package memoryengine
