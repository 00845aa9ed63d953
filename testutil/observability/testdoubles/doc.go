// Package testdoubles provides test doubles (spies) for observability interfaces.
//
// ContextualLoggerSpy captures structured logging calls together with their context,
// so tests can verify what the defaults Store and the postgres backend log
// without a real logging backend.
package testdoubles
