// Package observable provides an in-process property bag whose properties can be observed
// through the watch.Observer contract.
//
// Deliveries are synchronous: Set returns after every handler has run. Handlers run without
// any lock held and may read or write the Object, or register and cancel observations.
package observable
