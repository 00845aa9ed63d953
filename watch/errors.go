package watch

import "errors"

var (
	// ErrNilObserver is returned when a Registry or Watcher is created without an Observer.
	ErrNilObserver = errors.New("nil observer supplied")

	// ErrNothingToUnwatch is the panic value of a scoped teardown that finds no candidate ids.
	ErrNothingToUnwatch = errors.New("nothing to unwatch")

	// ErrInconsistentTeardown is the panic value of a teardown that leaves a requested id registered.
	ErrInconsistentTeardown = errors.New("observation still registered after teardown")
)
