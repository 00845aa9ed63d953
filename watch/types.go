package watch

import (
	"strings"
	"unicode"
)

// Path identifies an observed property. Two paths are equal iff their strings are equal.
type Path string

// Label returns the path with every character that is not a letter, a digit or an underscore
// replaced by an underscore, for use in derived ids.
func (p Path) Label() string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}

		return '_'
	}, string(p))
}

// Options is a set of delivery flags. The Registry passes it to the Observer untouched.
type Options uint8

const (
	// OptionNew asks for the new value in Change.NewValue.
	OptionNew Options = 1 << iota
	// OptionOld asks for the previous value in Change.OldValue.
	OptionOld
	// OptionInitial asks for one delivery of the current value at subscription time.
	OptionInitial
	// OptionPrior asks for an additional delivery before each change, with IsPrior set.
	OptionPrior
	// OptionOnlyOnChange suppresses deliveries when the new value equals the old one.
	OptionOnlyOnChange
)

// Has reports whether all flags in flag are set.
func (o Options) Has(flag Options) bool {
	return o&flag == flag
}

// Ptr returns a pointer to a copy of o, as expected by Observer.Observe.
func (o Options) Ptr() *Options {
	return &o
}

// Change describes one delivery to a handler.
type Change struct {
	Path     Path
	OldValue any
	NewValue any
	IsPrior  bool
}

// Subscription is the token an Observer returns; Cancel stops all further deliveries.
type Subscription interface {
	Cancel()
}

// CancelFunc adapts a plain function to the Subscription interface.
type CancelFunc func()

// Cancel calls f.
func (f CancelFunc) Cancel() {
	f()
}

// Observer is the observation primitive: it subscribes handler to the property at path of target.
// A nil options selects the primitive's default delivery flags.
type Observer[T any] interface {
	Observe(target T, path Path, options *Options, handler func(T, Change)) Subscription
}

// Entry is one registered observation.
type Entry struct {
	ID           string
	Subscription Subscription
	Path         Path
}
